package engine

import (
	"fmt"
	"path/filepath"
	"sync"
)

// ControlPlane is the non-RT half of the engine: it services UI messages,
// loads/decodes samples, and publishes configuration through Processing's
// ConfigSwap. It never runs on the RT thread.
type ControlPlane struct {
	proc    *Processing
	host    Host
	cfgFile ConfigFile
	scanner SampleScanner
	decoder WaveDecoder
	gui     GuiTransport

	samplePackRoot string
	configPath     string

	mu         sync.Mutex // guards samples only
	samples    []Sample
	reportDone chan struct{}

	// padInfo remembers the last successfully decoded WaveInfo per pad, so
	// a config publish that leaves a pad's sample path unchanged can still
	// reconcile lengthMs against the sample's real length without
	// redecoding it (original_source/src/Processing.cpp:723).
	padInfo [SamplerNumPads]WaveInfo
}

// NewControlPlane wires a control plane around an already-constructed
// Processing instance and its external collaborators.
func NewControlPlane(proc *Processing, host Host, cfgFile ConfigFile, scanner SampleScanner, decoder WaveDecoder, gui GuiTransport, samplePackRoot, configPath string) *ControlPlane {
	return &ControlPlane{
		proc:           proc,
		host:           host,
		cfgFile:        cfgFile,
		scanner:        scanner,
		decoder:        decoder,
		gui:            gui,
		samplePackRoot: samplePackRoot,
		configPath:     configPath,
	}
}

// Init loads the persisted config, scans the sample pack, decodes every
// referenced sample once (PrepareSamples), registers the process callback
// and activates the host. Any failure here is terminal: the host is never
// partially activated.
func (cp *ControlPlane) Init(bufferSize, sampleRate int) error {
	cfg, err := cp.cfgFile.ReadFile(cp.configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	samples, err := cp.scanner.Scan(cp.samplePackRoot)
	if err != nil {
		return fmt.Errorf("scan sample pack: %w", err)
	}
	cp.mu.Lock()
	cp.samples = samples
	cp.mu.Unlock()
	cfg.Samples = samples

	if err := cp.PrepareSamples(&cfg, sampleRate); err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}

	if err := cp.host.Register(func(nframes int) { cp.proc.Process(nframes, cp.host) }, bufferSize, sampleRate); err != nil {
		return fmt.Errorf("register process callback: %w", err)
	}

	*cp.proc.ConfigSwap().Inactive() = cfg
	cp.proc.ConfigSwap().Publish()
	cp.proc.ConfigSwap().Observe() // safe before Activate: no RT thread is running yet
	cp.proc.SetInitialized(true)

	if err := cp.host.Activate(); err != nil {
		cp.proc.SetInitialized(false)
		return fmt.Errorf("activate host: %w", err)
	}

	if cfg.Reconnect {
		if err := cp.host.ConnectPorts(&cfg); err != nil {
			return fmt.Errorf("connect ports: %w", err)
		}
	}

	cp.reportDone = make(chan struct{})
	if cp.gui != nil {
		go cp.reportLoop()
	} else {
		close(cp.reportDone)
	}

	return nil
}

// reportLoop is the transport-report thread: it waits on Processing's
// transportCond and forwards snapshots to the GUI until Shutdown.
func (cp *ControlPlane) reportLoop() {
	defer close(cp.reportDone)
	var lastSeq uint64
	for {
		rep := cp.proc.WaitTransportReport(lastSeq)
		if cp.proc.done.Load() && rep.Seq == lastSeq {
			return
		}
		lastSeq = rep.Seq
		cp.gui.Send("transport", "state", rep)
	}
}

// Close runs the shutdown sequence from spec.md §5: mark done, close the
// host (joins the RT thread), persist config, join the report thread.
func (cp *ControlPlane) Close() error {
	cp.proc.Shutdown()

	hostErr := cp.host.Close()

	cfg := cp.proc.ConfigSwap().Active()
	persistErr := cp.cfgFile.WriteFile(cp.configPath, *cfg)

	if cp.reportDone != nil {
		<-cp.reportDone
	}
	if cp.gui != nil {
		cp.gui.Close()
	}

	if hostErr != nil {
		return fmt.Errorf("close host: %w", hostErr)
	}
	if persistErr != nil {
		return fmt.Errorf("persist config: %w", persistErr)
	}
	return nil
}

// PrepareSamples batch-decodes every pad's sample into the store ahead of
// the first SetConfiguration, distinct from the steady-state per-pad
// update path in SetConfiguration (spec.md §9's supplemented feature,
// grounded on Processing::PrepareSamples).
func (cp *ControlPlane) PrepareSamples(cfg *Config, sampleRate int) error {
	for i := range cfg.Pads {
		p := &cfg.Pads[i]
		deriveGains(p)
		if p.SamplePath == "" {
			p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
			p.Available = false
			continue
		}
		path := resolveSamplePath(cp.samplePackRoot, p.SamplePath)
		info, pcm, err := cp.decoder.Decode(path, sampleRate)
		if err != nil {
			p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
			p.Available = false
			continue
		}
		cp.padInfo[i] = info
		reconcileLength(p, info, sampleRate)
		cp.proc.SampleStore().Stage(i, info, pcm)
		p.Available = true
	}
	cp.proc.SampleStore().CommitPending()
	return nil
}

// reconcileLength derives lengthMs/lengthSamps from a freshly decoded
// sample's real length, the way SetConfiguration's decode path does
// (original_source/src/Processing.cpp:714): a fresh decode always resets
// the pad's length to the sample's own duration, which is what guarantees
// I1 ("lengthSamps never outruns the decoded PCM") alongside I5's formula.
func reconcileLength(p *Pad, info WaveInfo, sampleRate int) {
	p.LengthMs = float64(info.NumFrames) * 1000.0 / float64(sampleRate)
	p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
	if p.LengthSamps > info.NumFrames {
		p.LengthSamps = info.NumFrames
	}
}

// resolveSamplePath joins a relative sample path against the pack root;
// an already-absolute path is returned unchanged.
func resolveSamplePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// SetConfiguration runs the eight-step publish protocol from spec.md
// §4.7: resize to SamplerNumPads, resolve/decode changed sample paths,
// clamp and derive gain/length fields, wait for any in-flight period,
// mark changed pads for a store swap, publish, persist, and optionally
// reconnect ports.
func (cp *ControlPlane) SetConfiguration(newCfg Config, connect bool, sampleRate int) error {
	active := cp.proc.ConfigSwap().Active()

	type padUpdate struct {
		idx  int
		info WaveInfo
		pcm  [][]float32
	}
	var updates []padUpdate

	for i := range newCfg.Pads {
		p := &newCfg.Pads[i]

		if p.GainDB < -200 {
			p.GainDB = -200
		}
		if p.GainDB > 6 {
			p.GainDB = 6
		}
		if p.Pan < -100 {
			p.Pan = -100
		}
		if p.Pan > 100 {
			p.Pan = 100
		}
		deriveGains(p)

		if p.SamplePath == "" {
			p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
			p.Available = false
			continue
		}

		pathChanged := i >= len(active.Pads) || active.Pads[i].SamplePath != p.SamplePath
		if !pathChanged {
			// No redecode this publish: clamp the configured length
			// against the last known decode instead of trusting it blindly
			// (original_source/src/Processing.cpp:723).
			if stored := cp.padInfo[i]; stored.Valid {
				maxMs := float64(stored.NumFrames) * 1000.0 / float64(sampleRate)
				if p.LengthMs > maxMs {
					p.LengthMs = maxMs
				}
				p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
				if p.LengthSamps > stored.NumFrames {
					p.LengthSamps = stored.NumFrames
				}
			} else {
				p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
			}
			continue
		}

		path := resolveSamplePath(cp.samplePackRoot, p.SamplePath)
		info, pcm, err := cp.decoder.Decode(path, sampleRate)
		if err != nil {
			p.LengthSamps = int(p.LengthMs * float64(sampleRate) / 1000.0)
			p.Available = false
			continue
		}
		cp.padInfo[i] = info
		reconcileLength(p, info, sampleRate)
		p.Available = true
		updates = append(updates, padUpdate{idx: i, info: info, pcm: pcm})
	}

	cp.proc.WaitPeriod()

	for _, u := range updates {
		cp.proc.SampleStore().Stage(u.idx, u.info, u.pcm)
	}

	*cp.proc.ConfigSwap().Inactive() = newCfg
	cp.proc.ConfigSwap().Publish()

	if err := cp.cfgFile.WriteFile(cp.configPath, newCfg); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}

	if connect && newCfg.Reconnect {
		if err := cp.host.ConnectPorts(&newCfg); err != nil {
			return fmt.Errorf("connect ports: %w", err)
		}
	}

	return nil
}

// AssignSample resolves a sample pack entry by relative path and name,
// writes it onto a pad, and republishes. It relies on SetConfiguration's
// own path-change detection to trigger the decode — AssignSample itself
// never decodes — preserved as specified in spec.md §9/DESIGN.md's Open
// Questions (fragile for an initially-empty pad only in the sense that
// the empty-string comparison still counts as "changed", which is what
// makes it work).
func (cp *ControlPlane) AssignSample(padIdx int, relPath, name string, sampleRate int) error {
	active := cp.proc.ConfigSwap().Active()
	if padIdx < 0 || padIdx >= len(active.Pads) {
		return fmt.Errorf("pad index %d out of range", padIdx)
	}
	next := *active
	next.Pads[padIdx].SamplePath = relPath
	next.Pads[padIdx].SampleName = name
	return cp.SetConfiguration(next, false, sampleRate)
}

// RefreshSamples rescans the sample pack and returns the new catalog,
// serving the samples.get UI message.
func (cp *ControlPlane) RefreshSamples() ([]Sample, error) {
	samples, err := cp.scanner.Scan(cp.samplePackRoot)
	if err != nil {
		return nil, fmt.Errorf("scan sample pack: %w", err)
	}
	cp.mu.Lock()
	cp.samples = samples
	cp.mu.Unlock()
	return samples, nil
}
