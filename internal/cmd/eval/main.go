// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// eval validates the diff algorithm on randomized scenarios. Every generated pair of lists is
// diffed with all representations, the events are applied to the old list and checked against the
// new list, the representations are compared against each other and the number of edits is compared
// against an independent Myers implementation.
package main

import (
	"bufio"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/mattn/go-isatty"
	mb0 "github.com/mb0/diff"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"znkr.io/listdiff"
	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/listpatch"
)

// Scenario kinds.
const (
	kindShuffle = "shuffle" // new is a shuffled, truncated and extended version of old
	kindEdit    = "edit"    // new is old with a few random edits
	kindFilter  = "filter"  // old and new are random selections from the same origin
)

type scenario struct {
	Name       string `toml:"name"`
	Kind       string `toml:"kind"`
	Sizes      []int  `toml:"sizes"`
	Edits      int    `toml:"edits"`
	Iterations int    `toml:"iterations"`
}

type evalConfig struct {
	Seed      uint64     `toml:"seed"`
	Parallel  int        `toml:"parallel"`
	Stats     string     `toml:"stats"`
	Verbose   bool       `toml:"verbose"`
	Scenarios []scenario `toml:"scenario"`
}

var defaultScenarios = []scenario{
	{Name: "shuffle", Kind: kindShuffle, Sizes: []int{20, 50, 100}, Iterations: 500},
	{Name: "edit", Kind: kindEdit, Sizes: []int{1_000, 10_000}, Edits: 50, Iterations: 50},
	{Name: "filter", Kind: kindFilter, Sizes: []int{100, 5_000}, Iterations: 100},
	{Name: "boundary", Kind: kindEdit, Sizes: []int{65_534, 65_535, 65_536}, Edits: 20, Iterations: 3},
}

func main() {
	var cfg evalConfig
	var configFile string
	flag.StringVar(&configFile, "config", "", "TOML file with scenarios and settings, flags override its settings")
	flag.Uint64Var(&cfg.Seed, "seed", 1, "seed for the random generator")
	flag.IntVar(&cfg.Parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.Stats, "stats", "", "file to store stats in")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose logging")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	if configFile != "" {
		var fileCfg evalConfig
		if _, err := toml.DecodeFile(configFile, &fileCfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: reading config: %v\n", err)
			os.Exit(1)
		}
		// Explicitly set flags take precedence.
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["seed"] && fileCfg.Seed != 0 {
			cfg.Seed = fileCfg.Seed
		}
		if !set["parallel"] && fileCfg.Parallel > 0 {
			cfg.Parallel = fileCfg.Parallel
		}
		if !set["stats"] && fileCfg.Stats != "" {
			cfg.Stats = fileCfg.Stats
		}
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
		cfg.Scenarios = fileCfg.Scenarios
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = defaultScenarios
	}

	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(&cfg); err != nil {
		logrus.Errorf("eval: %v", err)
		os.Exit(1)
	}
}

type job struct {
	scenario  scenario
	size      int
	iteration int
}

func (j job) String() string {
	return fmt.Sprintf("%s/size=%d/iteration=%d", j.scenario.Name, j.size, j.iteration)
}

type result struct {
	job      job
	repr     string
	N, M     int
	D        int
	changed  int
	duration time.Duration
}

type record struct {
	id, v int
}

func sameItem(a, b record) bool     { return a.id == b.id }
func sameContents(a, b record) bool { return a == b }

var callback = listdiff.Funcs[record]{Items: sameItem, Contents: sameContents}

func run(cfg *evalConfig) error {
	var jobs []job
	for _, sc := range cfg.Scenarios {
		switch sc.Kind {
		case kindShuffle, kindEdit, kindFilter:
		default:
			return fmt.Errorf("scenario %q: unknown kind %q", sc.Name, sc.Kind)
		}
		for _, size := range sc.Sizes {
			for i := range max(1, sc.Iterations) {
				jobs = append(jobs, job{sc, size, i})
			}
		}
	}

	var stats *bufio.Writer
	if cfg.Stats != "" {
		f, err := os.Create(cfg.Stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %w", err)
		}
		defer f.Close()
		stats = bufio.NewWriter(f)
		stats.WriteString("job,repr,N,M,D,changed,duration_ns\n")
	}
	var statsMu sync.Mutex

	p := mpb.New(
		mpb.WithOutput(progressOutput()),
		mpb.WithAutoRefresh(),
		mpb.WithWidth(barWidth()),
	)
	bar := p.AddBar(int64(len(jobs)),
		mpb.PrependDecorators(
			decor.Name("eval", decor.WC{W: 5, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" "),
			decor.AverageETA(decor.ET_STYLE_GO),
		),
	)

	var failures atomic.Int64
	var g errgroup.Group
	g.SetLimit(max(1, cfg.Parallel))
	for _, j := range jobs {
		g.Go(func() error {
			defer bar.Increment()
			results, err := evaluate(cfg.Seed, j)
			if err != nil {
				failures.Add(1)
				logrus.Errorf("%v: %v", j, err)
				return nil
			}
			if stats == nil {
				return nil
			}
			statsMu.Lock()
			defer statsMu.Unlock()
			for _, r := range results {
				if _, err := fmt.Fprintf(stats, "%s,%s,%d,%d,%d,%d,%d\n", r.job, r.repr, r.N, r.M, r.D, r.changed, r.duration.Nanoseconds()); err != nil {
					return fmt.Errorf("writing stats: %w", err)
				}
			}
			return nil
		})
	}
	err := g.Wait()
	p.Wait()
	if stats != nil {
		err = errors.Join(err, stats.Flush())
	}
	if err != nil {
		return err
	}
	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%d of %d evaluations failed", n, len(jobs))
	}
	logrus.Infof("%d evaluations passed", len(jobs))
	return nil
}

// progressOutput returns stderr if it's a terminal and nil otherwise, which disables the progress
// bar.
func progressOutput() io.Writer {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return os.Stderr
	}
	return nil
}

func barWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return 60
	}
	return min(width/2, 80)
}

// evaluate generates the lists for j and validates their diff.
func evaluate(seed uint64, j job) ([]result, error) {
	rngSeed := sha256.Sum256(fmt.Append(nil, seed, j.scenario.Name, j.size, j.iteration))
	rng := rand.New(rand.NewChaCha8(rngSeed))
	old, new := generate(rng, j)
	oldValues, newValues := slices.Collect(old.Values()), slices.Collect(new.Values())

	reprs := map[string]config.Repr{"wide": config.ReprWide}
	if max(old.Len(), new.Len()) < 0xFFFF {
		reprs["packed"] = config.ReprPacked
	}

	want := 0
	for _, ch := range mb0.Diff(len(oldValues), len(newValues), mb0records{oldValues, newValues}) {
		want += ch.Del + ch.Ins
	}

	var results []result
	var events [][]listdiff.Event
	for _, name := range []string{"packed", "wide"} {
		repr, ok := reprs[name]
		if !ok {
			continue
		}
		start := time.Now()
		res := listdiff.Diff(old, new, callback, config.ForceRepr(repr))
		duration := time.Since(start)

		p := listpatch.New(old.Len())
		res.DispatchTo(p)
		if err := listpatch.Verify(oldValues, newValues, sameItem, sameContents, p); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		removed, inserted, changed := res.Counts()
		if pr, pi, pc := p.Counts(); pr != removed || pi != inserted || pc != changed {
			return nil, fmt.Errorf("%s: dispatched %d/%d/%d removals/insertions/changes, result reports %d/%d/%d", name, pr, pi, pc, removed, inserted, changed)
		}
		if removed+inserted != want {
			return nil, fmt.Errorf("%s: %d edits, reference diff found %d", name, removed+inserted, want)
		}
		logrus.Debugf("%v: %s: N=%d M=%d D=%d in %v", j, name, old.Len(), new.Len(), removed+inserted, duration)

		events = append(events, res.Events())
		results = append(results, result{
			job:      j,
			repr:     name,
			N:        old.Len(),
			M:        new.Len(),
			D:        removed + inserted,
			changed:  changed,
			duration: duration,
		})
	}
	if len(events) == 2 && !slices.Equal(events[0], events[1]) {
		return nil, fmt.Errorf("packed and wide representation dispatched different events")
	}
	return results, nil
}

type mb0records struct {
	x, y []record
}

func (d mb0records) Equal(i, j int) bool { return d.x[i].id == d.y[j].id }

func generate(rng *rand.Rand, j job) (old, new *listdiff.FilteredArray[record]) {
	n := j.size
	origin := make([]record, n)
	for i := range origin {
		origin[i] = record{id: i}
	}

	switch j.scenario.Kind {
	case kindShuffle:
		s := slices.Clone(origin)
		rng.Shuffle(len(s), func(a, b int) { s[a], s[b] = s[b], s[a] })
		s = s[:rng.IntN(n+1)]
		for i := range s {
			if rng.IntN(4) == 0 {
				s[i].v++
			}
		}
		for range rng.IntN(n/4 + 1) {
			s = append(s, record{id: n + rng.IntN(n+1)})
		}
		return listdiff.All(origin), listdiff.All(s)

	case kindEdit:
		s := slices.Clone(origin)
		for range j.scenario.Edits {
			if len(s) == 0 {
				break
			}
			i := rng.IntN(len(s))
			switch rng.IntN(3) {
			case 0:
				s = slices.Delete(s, i, i+1)
			case 1:
				s = slices.Insert(s, i, record{id: n + rng.IntN(n+1)})
			default:
				s[i].v++
			}
		}
		return listdiff.All(origin), listdiff.All(s)

	case kindFilter:
		// Both selections are built as roaring bitmaps from the same origin. The new list sees an
		// updated copy of the origin with some contents changed.
		oldSel, newSel := roaring.New(), roaring.New()
		for i := range n {
			if rng.IntN(3) != 0 {
				oldSel.Add(uint32(i))
			}
		}
		newSel.Or(oldSel)
		for range n/10 + 1 {
			newSel.Flip(uint64(rng.IntN(n)), uint64(rng.IntN(n)+1))
		}
		updated := slices.Clone(origin)
		for i := range updated {
			if rng.IntN(10) == 0 {
				updated[i].v++
			}
		}
		return listdiff.FromRoaring(origin, oldSel), listdiff.FromRoaring(updated, newSel)

	default:
		panic("never reached")
	}
}
