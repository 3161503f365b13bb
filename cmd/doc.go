// Package cmd implements the sKV command line interface. The root command
// wires together the subcommand groups (bench, console, config), the
// version command and the process-wide logging flags. Subcommand groups
// live in their own packages and are attached in init().
package cmd
