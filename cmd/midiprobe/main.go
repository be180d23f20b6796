// Command midiprobe is a standalone diagnostic for the MIDI input port
// mcksamplerd opens at startup: it shares hostmidi's substring port-match
// (hostmidi/host.go's openInput) and engine's status/channel/note/CC decoding
// (engine/mididecoder.go) so "does midiprobe see my pad trigger" answers
// the same question as "will the daemon see my pad trigger".
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

const (
	statusNoteOn uint8 = 0x90
	statusCC     uint8 = 0xB0
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		substr, chanFilter := "", -1
		if len(os.Args) > 2 {
			substr = os.Args[2]
		}
		if len(os.Args) > 3 {
			fmt.Sscanf(os.Args[3], "%d", &chanFilter)
		}
		watch(substr, chanFilter)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("midiprobe: inspect the MIDI input mcksamplerd would open")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                    - list MIDI input/output ports")
	fmt.Println("  watch <substr> [chan]   - open the first input port whose name")
	fmt.Println("                            contains <substr> (empty = first port)")
	fmt.Println("                            and print decoded events, optionally")
	fmt.Println("                            filtered to one MIDI channel (0-15)")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! the MIDI backend is hung.")
	}
}

// watch opens the named input port the same way hostmidi.Host.openInput
// does (case-insensitive substring match, first port if substr is empty)
// and prints every decoded event as DecodeMidi would see it: note-on,
// CC, or an ignored system/non-matching-channel message.
func watch(substr string, chanFilter int) {
	inPorts := gomidi.GetInPorts()
	var chosen drivers.In
	for i, p := range inPorts {
		name := strings.ToLower(p.String())
		if substr == "" || strings.Contains(name, strings.ToLower(substr)) {
			chosen = inPorts[i]
			break
		}
	}
	if chosen == nil {
		fmt.Printf("no input port matching %q\n", substr)
		return
	}
	fmt.Printf("watching %q (ctrl+c to quit)\n", chosen.String())

	stop, err := gomidi.ListenTo(chosen, func(msg gomidi.Message, timestampms int32) {
		raw := msg.Bytes()
		if len(raw) == 0 {
			return
		}
		status := raw[0]
		var data1, data2 uint8
		if len(raw) > 1 {
			data1 = raw[1]
		}
		if len(raw) > 2 {
			data2 = raw[2]
		}
		printEvent(status, data1, data2, chanFilter)
	})
	if err != nil {
		fmt.Printf("open input: %v\n", err)
		return
	}
	defer stop()

	select {}
}

func printEvent(status, data1, data2 uint8, chanFilter int) {
	if status&0xF0 == 0xF0 {
		fmt.Printf("system message %#02x, ignored\n", status)
		return
	}
	ch := int(status & 0x0F)
	if chanFilter >= 0 && ch != chanFilter {
		fmt.Printf("channel %d event, filtered out (watching %d)\n", ch, chanFilter)
		return
	}
	switch status & 0xF0 {
	case statusNoteOn:
		tone, velocity := data1&0x7F, data2&0x7F
		fmt.Printf("chan %2d  note-on  tone=%3d  velocity=%3d\n", ch, tone, velocity)
	case statusCC:
		ctrl, value := data1&0x7F, data2&0x7F
		fmt.Printf("chan %2d  cc       ctrl=%3d  value=%3d\n", ch, ctrl, value)
	default:
		fmt.Printf("chan %2d  status=%#02x data1=%d data2=%d\n", ch, status, data1, data2)
	}
}
