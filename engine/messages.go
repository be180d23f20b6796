package engine

import (
	"encoding/json"
	"fmt"
)

// PadTriggerPayload is the pads.trigger UI message body.
type PadTriggerPayload struct {
	Index    int     `json:"index"`
	Strength float64 `json:"strength"`
}

// TransportCommandPayload is the transport.command UI message body.
type TransportCommandPayload struct {
	Command string  `json:"command"` // "play" | "stop" | "setTempo" | "seek"
	Tempo   float64 `json:"tempo,omitempty"`
	Beat    int     `json:"beat,omitempty"`
}

// SamplesCommandPayload is the samples.command UI message body.
type SamplesCommandPayload struct {
	Command  string `json:"command"` // "load" | "play" | "stop" | "assign"
	PadIndex int    `json:"padIndex"`
	Path     string `json:"path"`
	Name     string `json:"name"`
}

// ReceiveMessage dispatches one inbound GuiMessage per the section.msgType
// table in spec.md §4.7. sampleRate is needed for derived-field
// recomputation on data.patch/samples.command(assign).
func (cp *ControlPlane) ReceiveMessage(msg GuiMessage, sampleRate int) (any, error) {
	switch msg.Section + "." + msg.MsgType {
	case "pads.trigger":
		return nil, cp.handlePadsTrigger(msg.Payload)

	case "transport.command":
		return nil, cp.handleTransportCommand(msg.Payload)

	case "data.get":
		return *cp.proc.ConfigSwap().Active(), nil

	case "data.patch":
		return cp.handleDataPatch(msg.Payload, sampleRate)

	case "samples.get":
		return cp.RefreshSamples()

	case "samples.command":
		return cp.handleSamplesCommand(msg.Payload, sampleRate)

	default:
		return nil, fmt.Errorf("unrecognised message %s.%s", msg.Section, msg.MsgType)
	}
}

func decodePayload(payload any, dst any) error {
	raw, ok := payload.(json.RawMessage)
	if ok {
		return json.Unmarshal(raw, dst)
	}
	// Allow already-decoded structs (e.g. from guichan's in-process transport).
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (cp *ControlPlane) handlePadsTrigger(payload any) error {
	var p PadTriggerPayload
	if err := decodePayload(payload, &p); err != nil {
		return fmt.Errorf("parse pads.trigger: %w", err)
	}
	strength := p.Strength
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	ok := cp.proc.Triggers().TryEnqueue(Trigger{PadIdx: p.Index, Velocity: uint8(strength * 127)})
	if !ok {
		return fmt.Errorf("trigger queue full, dropped pad %d", p.Index)
	}
	return nil
}

func (cp *ControlPlane) handleTransportCommand(payload any) error {
	var p TransportCommandPayload
	if err := decodePayload(payload, &p); err != nil {
		return fmt.Errorf("parse transport.command: %w", err)
	}
	var cmd TransportCommand
	switch p.Command {
	case "play":
		cmd = TransportCommand{Kind: TransportPlay}
	case "stop":
		cmd = TransportCommand{Kind: TransportStop}
	case "setTempo":
		cmd = TransportCommand{Kind: TransportSetTempo, Tempo: p.Tempo}
	case "seek":
		cmd = TransportCommand{Kind: TransportSeek, Beat: p.Beat}
	default:
		return fmt.Errorf("unknown transport command %q", p.Command)
	}
	return cp.proc.clock.ApplyCommand(cmd)
}

// handleDataPatch applies a JSON-merge-style delta to a copy of the
// active config; on any parse or apply error it returns the full config
// as a rollback per spec.md §4.7, otherwise it publishes the patched copy.
func (cp *ControlPlane) handleDataPatch(payload any, sampleRate int) (any, error) {
	active := *cp.proc.ConfigSwap().Active()

	raw, err := json.Marshal(active)
	if err != nil {
		return active, fmt.Errorf("marshal active config: %w", err)
	}

	var patch json.RawMessage
	if err := decodePayload(payload, &patch); err != nil {
		return active, fmt.Errorf("parse data.patch: %w", err)
	}

	merged, err := mergeJSON(raw, patch)
	if err != nil {
		return active, fmt.Errorf("apply data.patch: %w", err)
	}

	var next Config
	if err := json.Unmarshal(merged, &next); err != nil {
		return active, fmt.Errorf("decode patched config: %w", err)
	}

	if err := cp.SetConfiguration(next, true, sampleRate); err != nil {
		return active, fmt.Errorf("publish patched config: %w", err)
	}
	return next, nil
}

// mergeJSON applies an RFC 7386-style merge patch: any key present in
// patch overwrites the corresponding key in base; nested objects merge
// recursively, everything else replaces.
func mergeJSON(base, patch []byte) ([]byte, error) {
	var baseMap map[string]any
	if err := json.Unmarshal(base, &baseMap); err != nil {
		return nil, err
	}
	var patchMap map[string]any
	if err := json.Unmarshal(patch, &patchMap); err != nil {
		return nil, err
	}
	mergeMaps(baseMap, patchMap)
	return json.Marshal(baseMap)
}

func mergeMaps(base, patch map[string]any) {
	for k, pv := range patch {
		if bv, ok := base[k]; ok {
			bm, bok := bv.(map[string]any)
			pm, pok := pv.(map[string]any)
			if bok && pok {
				mergeMaps(bm, pm)
				continue
			}
		}
		base[k] = pv
	}
}

func (cp *ControlPlane) handleSamplesCommand(payload any, sampleRate int) (any, error) {
	var p SamplesCommandPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, fmt.Errorf("parse samples.command: %w", err)
	}
	switch p.Command {
	case "assign":
		if err := cp.AssignSample(p.PadIndex, p.Path, p.Name, sampleRate); err != nil {
			return nil, err
		}
		return *cp.proc.ConfigSwap().Active(), nil
	case "load", "play", "stop":
		// Delegated to the SampleExplorer auxiliary preview processor;
		// this control plane doesn't carry one by default (non-goal:
		// a preview player is out of spec.md's scope beyond the hook
		// ProcessCallback already exposes at step 11).
		return nil, fmt.Errorf("samples.command %q requires a SampleExplorer, none configured", p.Command)
	default:
		return nil, fmt.Errorf("unknown samples.command %q", p.Command)
	}
}
