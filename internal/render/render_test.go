package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/qcreport/internal/models"
	"github.com/harrison/qcreport/internal/registry"
)

func writeReport(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir, path
}

func jobFor(t *testing.T, kind models.SectionKind, content string) Job {
	t.Helper()
	entry, ok := registry.Default().Lookup(kind)
	require.True(t, ok)
	dir, path := writeReport(t, content)
	return NewJob(entry, dir, path)
}

func TestSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.SectionKind
		content string
		wantErr string
	}{
		{
			name:    "matching header",
			kind:    registry.KindPerSeqGCContent,
			content: "#GC Content\tCount\n45\t1000.0\n",
		},
		{
			name:    "extra columns allowed",
			kind:    registry.KindPerBaseSeqContent,
			content: "#Base\tG\tA\tT\tC\r\n1\t21\t29\t30\t20\r\n",
		},
		{
			name:    "missing column",
			kind:    registry.KindPerTileSeqQuality,
			content: "#Tile\tBase\n1101\t1\n",
			wantErr: "missing Mean",
		},
		{
			name:    "skip rows honoured",
			kind:    registry.KindSeqDuplicationLevels,
			content: "#Total Deduplicated Percentage\t87.2\n#Duplication Level\tPercentage of deduplicated\tPercentage of total\n1\t93\t81\n",
		},
		{
			name:    "skip rows missing header",
			kind:    registry.KindSeqDuplicationLevels,
			content: "#Duplication Level\tPercentage of deduplicated\tPercentage of total\n1\t93\t81\n",
			wantErr: "missing #Duplication Level",
		},
		{
			name:    "empty report passes",
			kind:    registry.KindOverrepresentedSeqs,
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifacts, err := SchemaCheck().Render(context.Background(), jobFor(t, tt.kind, tt.content))
			assert.Empty(t, artifacts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaMismatch))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchemaCheck_MissingReport(t *testing.T) {
	job := Job{ReportPath: filepath.Join(t.TempDir(), "absent.txt"), Schema: registry.Schema{Columns: []string{"#Base"}}}
	_, err := SchemaCheck().Render(context.Background(), job)
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	reg := registry.Default()
	chart := Func(func(ctx context.Context, job Job) ([]string, error) {
		return []string{job.ChartPath()}, nil
	})

	t.Run("nothing enabled", func(t *testing.T) {
		assert.Empty(t, Build(reg, Options{}))
	})

	t.Run("schema check covers every kind", func(t *testing.T) {
		table := Build(reg, Options{SchemaCheck: true})
		assert.Len(t, table, len(reg.Entries()))
	})

	t.Run("chart only where declared", func(t *testing.T) {
		table := Build(reg, Options{Chart: chart})
		_, ok := table.Lookup(registry.KindAdapterContent)
		assert.True(t, ok)
		_, ok = table.Lookup(registry.KindBasicStatistics)
		assert.False(t, ok)
		_, ok = table.Lookup(models.KindUnknown)
		assert.False(t, ok)
	})

	t.Run("chained", func(t *testing.T) {
		table := Build(reg, Options{SchemaCheck: true, Chart: chart})
		r, ok := table.Lookup(registry.KindPerSeqQualityScores)
		require.True(t, ok)

		job := jobFor(t, registry.KindPerSeqQualityScores, "#Quality\tCount\n30\t10\n")
		artifacts, err := r.Render(context.Background(), job)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(job.Dir, "per_sequence_quality_plot.png")}, artifacts)
	})
}

func TestChain_StopsAtFirstError(t *testing.T) {
	calls := 0
	ok := Func(func(ctx context.Context, job Job) ([]string, error) {
		calls++
		return []string{"a.png"}, nil
	})
	bad := Func(func(ctx context.Context, job Job) ([]string, error) {
		calls++
		return nil, errors.New("boom")
	})

	artifacts, err := Chain(ok, bad, ok).Render(context.Background(), Job{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer 1")
	assert.Equal(t, []string{"a.png"}, artifacts)
	assert.Equal(t, 2, calls)
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_ProducesChart(t *testing.T) {
	requireShell(t)
	job := jobFor(t, registry.KindAdapterContent, "#Position\tIllumina\n1\t0.0\n")

	cmd := Command{Argv: []string{"sh", "-c", `test "$1" = adapter_content && cp "$2" "$3"`, "plot"}}
	artifacts, err := cmd.Render(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, filepath.Join(job.Dir, "adapter_content_plot.png"), artifacts[0])
	assert.FileExists(t, artifacts[0])
}

func TestCommand_Failures(t *testing.T) {
	requireShell(t)

	t.Run("non-zero exit", func(t *testing.T) {
		job := jobFor(t, registry.KindKmerContent, "#Sequence\tCount\n")
		_, err := Command{Argv: []string{"sh", "-c", "echo bad input >&2; exit 3", "plot"}}.Render(context.Background(), job)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad input")
	})

	t.Run("no artifact", func(t *testing.T) {
		job := jobFor(t, registry.KindKmerContent, "#Sequence\tCount\n")
		_, err := Command{Argv: []string{"sh", "-c", "true", "plot"}}.Render(context.Background(), job)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoArtifact))
	})

	t.Run("timeout", func(t *testing.T) {
		job := jobFor(t, registry.KindKmerContent, "#Sequence\tCount\n")
		cmd := Command{Argv: []string{"sh", "-c", "exec sleep 5", "plot"}, Timeout: 50 * time.Millisecond}
		_, err := cmd.Render(context.Background(), job)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("empty argv", func(t *testing.T) {
		_, err := Command{}.Render(context.Background(), Job{Chart: "x.png"})
		assert.Error(t, err)
	})
}

func TestCommand_SkipsKindsWithoutChart(t *testing.T) {
	job := jobFor(t, registry.KindBasicStatistics, "#Measure\tValue\n")
	artifacts, err := Command{Argv: []string{"definitely-not-a-binary"}}.Render(context.Background(), job)
	assert.NoError(t, err)
	assert.Empty(t, artifacts)
}
