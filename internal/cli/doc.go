// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling exit codes. It translates -var assignments, -vars
// files and the EXPRESSION argument into a config.Config.
package cli
