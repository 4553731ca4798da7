package benchmarks

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/core"
	"github.com/comalice/lsystemx/internal/primitives"
	"github.com/comalice/lsystemx/internal/production"
)

func decodeYAML(data []byte) (*lsystemx.Grammar, error) {
	var cfg primitives.GrammarConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg.Grammar()
}

// BenchmarkForest measures the concurrent per-tree interpretation plus replay.
func BenchmarkForest(b *testing.B) {
	g := GenBranching(2)
	for _, trees := range []int{1, 4, 16} {
		for _, workers := range []int{1, 0} {
			r, err := core.NewRenderer(core.WithConcurrency(workers))
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("trees=%d/workers=%d", trees, workers), func(b *testing.B) {
				var dl lsystemx.DisplayList
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					dl.Reset()
					if _, err := r.Render(context.Background(), g, 9, trees, &dl); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkSVG measures writing a forest as SVG.
func BenchmarkSVG(b *testing.B) {
	g := GenBranching(2)
	r, err := core.NewRenderer()
	if err != nil {
		b.Fatal(err)
	}
	cfg := r.Config()
	var buf bytes.Buffer
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		s := production.NewSVGSurface(&buf, cfg.Width, cfg.Height, cfg.BackgroundColor())
		if _, err := r.Render(context.Background(), g, 8, 3, s); err != nil {
			b.Fatal(err)
		}
		s.Close()
	}
	b.SetBytes(int64(buf.Len()))
}
