// Package interactive provides the debug console for pilot-io. It takes
// the place of the serial console on the board: pins can be inspected and
// reconfigured and simulated inputs driven while the server runs.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	pilot "github.com/jacksonzamorano/pilot-io"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Console runs commands against a device.
type Console struct {
	device *pilot.Device
	hw     *pilot_userio.SimulatedHardware
	rl     *readline.Instance
	out    io.Writer
	title  cases.Caser
}

// New creates a console. hw may be nil when the device is not simulated,
// in which case the set command is unavailable.
func New(device *pilot.Device, hw *pilot_userio.SimulatedHardware) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pilot-io> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	c := newConsole(device, hw, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newConsole(device *pilot.Device, hw *pilot_userio.SimulatedHardware, out io.Writer) *Console {
	return &Console{
		device: device,
		hw:     hw,
		out:    out,
		title:  cases.Title(language.English),
	}
}

// Stdout returns a writer that coordinates with the prompt. Use it for log
// output while the console runs.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run reads commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
		if c.Execute(ctx, line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the console should
// exit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "pins", "p":
		c.cmdPins()
	case "set":
		c.cmdSet(args)
	case "enable":
		c.cmdPin(args, c.device.Bank.Enable)
	case "disable":
		c.cmdPin(args, c.device.Bank.Disable)
	case "type":
		c.cmdType(args)
	case "dir":
		c.cmdDir(args)
	case "write", "w":
		c.cmdWrite(args)
	case "uptime":
		u := c.device.Clock.Uptime()
		fmt.Fprintf(c.out, "Uptime: %dh %dm %ds %dms\n", u.Hour, u.Min, u.Sec, u.Msec)
	case "netinfo":
		c.cmdNetInfo()
	case "routes":
		c.device.Routes().WriteTree(c.out)
	case "save":
		if err := c.device.Save(ctx); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(c.out, "Saved pin configuration.")
	case "reset":
		if err := c.device.Reset(ctx); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(c.out, "Restored factory pin configuration.")
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  pins                      Show every pin with its configuration and value
  set <id> <value>          Drive a simulated input (ADC 0-4095 or level 0/1)
  enable <id>               Enable a pin
  disable <id>              Disable a pin
  type <id> analog|digital  Change the pin type
  dir <id> input|output     Change the pin direction
  write <id> 0|1            Drive a digital output
  uptime                    Show device uptime
  netinfo                   Show network configuration
  routes                    List REST resources
  save                      Persist the pin configuration
  reset                     Restore factory pins and clear the stored configuration
  quit                      Stop the device
`)
}

func (c *Console) cmdPins() {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPIN\tENABLED\tTYPE\tDIRECTION\tVALUE")
	for _, p := range c.device.Bank.Pins() {
		value := "-"
		if v, err := c.device.Bank.ReadValue(p.ID); err == nil {
			value = strconv.Itoa(int(v))
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\t%s\n", p.ID, p.Name, p.Enabled, c.title.String(p.Type.String()), c.title.String(p.Direction.String()), value)
	}
	w.Flush()
}

func (c *Console) cmdPin(args []string, fn func(string) error) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: enable|disable <id>")
		return
	}
	if err := fn(args[0]); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.report(args[0])
}

func (c *Console) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: set <id> <value>")
		return
	}
	if c.hw == nil {
		fmt.Fprintln(c.out, "Error: inputs can only be set on simulated hardware")
		return
	}
	idx, ok := pilot_userio.PinIndex(args[0])
	if !ok {
		fmt.Fprintf(c.out, "Error: %v\n", pilot_userio.ErrUnknownPin)
		return
	}
	value, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		fmt.Fprintf(c.out, "Error: invalid value %q\n", args[1])
		return
	}
	p, _ := c.device.Bank.Pin(args[0])
	if p.Type == pilot_userio.PinAnalog {
		c.hw.SetADC(idx, uint16(value))
	} else {
		c.hw.SetInput(idx, value != 0)
	}
	fmt.Fprintf(c.out, "Set %s input to %d\n", args[0], value)
}

func (c *Console) cmdType(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: type <id> analog|digital")
		return
	}
	t, ok := pilot_userio.ParsePinType(args[1])
	if !ok {
		fmt.Fprintf(c.out, "Error: unknown type %q\n", args[1])
		return
	}
	if err := c.device.Bank.SetType(args[0], t); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.report(args[0])
}

func (c *Console) cmdDir(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: dir <id> input|output")
		return
	}
	d, ok := pilot_userio.ParseDirection(args[1])
	if !ok {
		fmt.Fprintf(c.out, "Error: unknown direction %q\n", args[1])
		return
	}
	if err := c.device.Bank.SetDirection(args[0], d); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.report(args[0])
}

func (c *Console) cmdWrite(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: write <id> 0|1")
		return
	}
	value, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		fmt.Fprintf(c.out, "Error: invalid value %q\n", args[1])
		return
	}
	if err := c.device.Bank.WriteValue(args[0], uint16(value)); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Wrote %d to %s\n", value, args[0])
}

func (c *Console) cmdNetInfo() {
	info := c.device.Network.NetInfo()
	fmt.Fprintf(c.out, "MAC:  %s\n", info.MACString())
	fmt.Fprintf(c.out, "IP:   %s\n", pilot_userio.FormatIPv4(info.IP))
	fmt.Fprintf(c.out, "GW:   %s\n", pilot_userio.FormatIPv4(info.Gateway))
	fmt.Fprintf(c.out, "SN:   %s\n", pilot_userio.FormatIPv4(info.Subnet))
	fmt.Fprintf(c.out, "DNS:  %s\n", pilot_userio.FormatIPv4(info.DNS))
	fmt.Fprintf(c.out, "DHCP: %s\n", info.DHCPString())
}

func (c *Console) report(id string) {
	p, _ := c.device.Bank.Pin(id)
	fmt.Fprintf(c.out, "%s (%s): enabled=%v type=%s direction=%s\n", p.ID, p.Name, p.Enabled, p.Type, p.Direction)
}
