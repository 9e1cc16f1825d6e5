// Command gicar reads and writes the settings of Gicar-based espresso
// machines (Ascaso Baby T family) over the board's serial link.
//
// Usage:
//
//	gicar <command> [flags] [args]
//
// Commands:
//
//	read       Read and show the machine state
//	peek       Show a raw value at a device address
//	set        Write one named field
//	autotimer  Enable, disable or program the power timer
//	poke       Write a raw value at a device address
//	ports      List serial ports
//	shell      Interactive console
//	mirror     Poll the machine and mirror it into Modbus TCP registers
//
// Examples:
//
//	# Show status from the machine on /dev/ttyUSB0
//	gicar read -port /dev/ttyUSB0
//
//	# Show everything from the last saved read, as YAML
//	gicar read -all -format yaml
//
//	# Set the coffee temperature without sending anything
//	gicar set -dry-run coffee_temperature 93.5
//
//	# Switch the power timer off
//	gicar autotimer -port /dev/ttyUSB0 disable
package main

import (
	"fmt"
	"os"
)

const usage = `gicar - Gicar serial protocol tool

Usage:
  gicar <command> [flags] [args]

Commands:
  read                          Read and show the machine state
  peek <offset> <size>          Show a raw value at a device address
  set <field> <value>           Write one named field
  autotimer enable|disable|set  Control the power timer
  poke <offset> <value> <size>  Write a raw value at a device address
  ports                         List serial ports
  shell                         Interactive console
  mirror                        Mirror the machine into Modbus TCP registers

Use "gicar <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "read":
		err = runRead(args)
	case "peek":
		err = runPeek(args)
	case "set":
		err = runSet(args)
	case "autotimer":
		err = runAutotimer(args)
	case "poke":
		err = runPoke(args)
	case "ports":
		err = runPorts(args)
	case "shell":
		err = runShell(args)
	case "mirror":
		err = runMirror(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
