// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filemill/pkg/batch"
	"github.com/walteh/filemill/pkg/processor"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// fakeIndividual is a scriptable Individual processor.
type fakeIndividual struct {
	desc processor.Descriptor
	fn   func(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error)
}

func (f *fakeIndividual) Describe() processor.Descriptor {
	return f.desc
}

func (f *fakeIndividual) Process(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
	return f.fn(ctx, file, outputDir, format)
}

func newFakeIndividual(fn func(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error)) *fakeIndividual {
	return &fakeIndividual{
		desc: processor.Descriptor{
			Name:     "fake-individual",
			Category: processor.CategoryIndividual,
			SaveFormats: []processor.SaveFormat{
				{Label: "Plain text", Ext: "txt"},
			},
		},
		fn: fn,
	}
}

// writeArtifact is the default behavior: copy the input name into the
// output directory with the format's extension.
func writeArtifact(_ context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
	out := filepath.Join(outputDir, filepath.Base(file)+"."+format.Ext)
	if err := os.WriteFile(out, []byte("processed "+file), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// fakeAdjoint is a scriptable Adjoint processor.
type fakeAdjoint struct {
	desc     processor.Descriptor
	fn       func(ctx context.Context, file string) (any, error)
	gatherFn func(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) error

	mu       sync.Mutex
	gathered [][]any
}

func (f *fakeAdjoint) Describe() processor.Descriptor {
	return f.desc
}

func (f *fakeAdjoint) Process(ctx context.Context, file string) (any, error) {
	return f.fn(ctx, file)
}

func (f *fakeAdjoint) Gather(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) error {
	f.mu.Lock()
	f.gathered = append(f.gathered, values)
	f.mu.Unlock()
	if f.gatherFn != nil {
		return f.gatherFn(ctx, values, format, outputPath)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func (f *fakeAdjoint) gatherCalls() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gathered
}

func newFakeAdjoint(fn func(ctx context.Context, file string) (any, error)) *fakeAdjoint {
	return &fakeAdjoint{
		desc: processor.Descriptor{
			Name:     "fake-adjoint",
			Category: processor.CategoryAdjoint,
			SaveFormats: []processor.SaveFormat{
				{Label: "JSON document", Ext: "json"},
			},
		},
		fn: fn,
	}
}

// recordingObserver appends events without locking: the dispatcher
// guarantees serialized callbacks, and the race detector holds it to
// that promise.
type recordingObserver struct {
	events []batch.Event
}

func (o *recordingObserver) OnStart(e batch.StartEvent)       { o.events = append(o.events, e) }
func (o *recordingObserver) OnFileComplete(e batch.FileEvent) { o.events = append(o.events, e) }
func (o *recordingObserver) OnComplete(e batch.DoneEvent)     { o.events = append(o.events, e) }

func inputFiles(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("input-%02d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte("line\n"), 0o644))
		files = append(files, path)
	}
	return files
}

func TestIndividualRun_HappyPath(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 5)
	outDir := filepath.Join(t.TempDir(), "out", "nested")

	exec, err := batch.New(newFakeIndividual(writeArtifact))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: outDir, MaxWorkers: 3})
	require.NoError(t, err)

	results := run.Results()
	require.Len(t, results, len(files))
	for _, res := range results {
		assert.True(t, res.Success, "file %s: %s", res.File, res.Message)
		assert.FileExists(t, res.Artifact)
		assert.Equal(t, ".txt", filepath.Ext(res.Artifact))
	}

	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "missing output directory should have been created")
}

func TestIndividualRun_FailuresAreIsolated(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 4)
	poison := files[1]

	exec, err := batch.New(newFakeIndividual(
		func(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
			if file == poison {
				return "", fmt.Errorf("refusing to process %s", file)
			}
			return writeArtifact(ctx, file, outputDir, format)
		}))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: t.TempDir(), MaxWorkers: 2})
	require.NoError(t, err)

	summary := run.Wait()
	require.Len(t, summary.Results, 4)
	assert.Equal(t, 3, summary.Succeeded())
	assert.Equal(t, 1, summary.Failed())

	for _, res := range summary.Results {
		if res.File == poison {
			assert.False(t, res.Success)
			assert.Contains(t, res.Message, "refusing to process")
		} else {
			assert.True(t, res.Success)
		}
	}
}

func TestIndividualRun_PanicBecomesFailedResult(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 3)

	exec, err := batch.New(newFakeIndividual(
		func(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
			if file == files[0] {
				panic("boom")
			}
			return writeArtifact(ctx, file, outputDir, format)
		}))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: t.TempDir()})
	require.NoError(t, err)

	summary := run.Wait()
	assert.Equal(t, 2, summary.Succeeded())

	var panicked *batch.Result
	for i := range summary.Results {
		if !summary.Results[i].Success {
			panicked = &summary.Results[i]
		}
	}
	require.NotNil(t, panicked, "the panicking file must still produce a result")
	assert.Equal(t, files[0], panicked.File)
	assert.Contains(t, panicked.Message, "panicked")
	assert.Contains(t, panicked.Message, "boom")
}

func TestRun_EventOrdering(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 12)

	exec, err := batch.New(newFakeIndividual(
		func(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
			// Scramble completion order so the ordering guarantee is
			// exercised, not accidental.
			time.Sleep(time.Duration(len(file)%5) * 2 * time.Millisecond)
			return writeArtifact(ctx, file, outputDir, format)
		}))
	require.NoError(t, err)

	obs := &recordingObserver{}
	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: t.TempDir(), MaxWorkers: 4}, obs)
	require.NoError(t, err)
	summary := run.Wait()

	require.Len(t, obs.events, 1+len(files)+1)

	start, ok := obs.events[0].(batch.StartEvent)
	require.True(t, ok, "first event must be the start event, got %T", obs.events[0])
	assert.Equal(t, run.ID(), start.RunID)
	assert.Equal(t, files, start.Files)
	assert.Equal(t, 4, start.Workers)

	var observed []string
	for i, e := range obs.events[1 : len(obs.events)-1] {
		fe, ok := e.(batch.FileEvent)
		require.True(t, ok, "middle events must be file events, got %T", e)
		assert.Equal(t, i+1, fe.Seq, "completion sequence must count up")
		assert.Equal(t, len(files), fe.Total)
		observed = append(observed, fe.Result.File)
	}

	done, ok := obs.events[len(obs.events)-1].(batch.DoneEvent)
	require.True(t, ok, "last event must be the done event, got %T", obs.events[len(obs.events)-1])
	assert.Equal(t, summary.RunID, done.RunID)

	var reported []string
	for _, res := range done.Results {
		reported = append(reported, res.File)
	}
	assert.Equal(t, observed, reported, "done results must match file event order")
}

func TestRun_BoundedParallelism(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 8)

	var mu sync.Mutex
	cur, peak := 0, 0

	exec, err := batch.New(newFakeIndividual(
		func(ctx context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
			mu.Lock()
			cur++
			if cur > peak {
				peak = cur
			}
			mu.Unlock()

			time.Sleep(15 * time.Millisecond)

			mu.Lock()
			cur--
			mu.Unlock()
			return writeArtifact(ctx, file, outputDir, format)
		}))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: t.TempDir(), MaxWorkers: 2})
	require.NoError(t, err)
	run.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2, "worker pool must respect the parallelism bound")
}

func TestRun_EmptyFileList(t *testing.T) {
	ctx := testCtx(t)

	exec, err := batch.New(newFakeIndividual(writeArtifact))
	require.NoError(t, err)

	obs := &recordingObserver{}
	run, err := exec.Run(ctx, batch.Job{Files: nil, OutputTarget: t.TempDir()}, obs)
	require.NoError(t, err)
	summary := run.Wait()

	assert.Empty(t, summary.Results)
	require.Len(t, obs.events, 2)
	assert.IsType(t, batch.StartEvent{}, obs.events[0])
	assert.IsType(t, batch.DoneEvent{}, obs.events[1])
}

func TestIndividualRun_RejectsFileTarget(t *testing.T) {
	ctx := testCtx(t)
	target := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(target, []byte("in the way"), 0o644))

	exec, err := batch.New(newFakeIndividual(writeArtifact))
	require.NoError(t, err)

	obs := &recordingObserver{}
	_, err = exec.Run(ctx, batch.Job{Files: inputFiles(t, 1), OutputTarget: target}, obs)
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrInvalidOutputTarget)
	assert.Empty(t, obs.events, "a rejected run must not emit events")
}

func TestAdjointRun_GatherReceivesCompletionOrder(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 6)
	outPath := filepath.Join(t.TempDir(), "combined.json")

	adj := newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		time.Sleep(time.Duration(len(file)%4) * 2 * time.Millisecond)
		return filepath.Base(file), nil
	})
	exec, err := batch.New(adj)
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: outPath, MaxWorkers: 3})
	require.NoError(t, err)
	summary := run.Wait()

	require.NoError(t, summary.GatherErr)
	assert.Equal(t, outPath, summary.Artifact)
	assert.FileExists(t, outPath)

	calls := adj.gatherCalls()
	require.Len(t, calls, 1, "gather must run exactly once")

	var fromResults []any
	for _, res := range summary.Results {
		require.True(t, res.Success)
		fromResults = append(fromResults, res.Value)
	}
	assert.Equal(t, fromResults, calls[0], "gather values must follow completion order")
}

func TestAdjointRun_FailedFilesExcludedFromGather(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 5)
	poison := files[2]
	outPath := filepath.Join(t.TempDir(), "combined.json")

	adj := newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		if file == poison {
			return nil, fmt.Errorf("unreadable")
		}
		return filepath.Base(file), nil
	})
	exec, err := batch.New(adj)
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: outPath, MaxWorkers: 2})
	require.NoError(t, err)
	summary := run.Wait()

	require.NoError(t, summary.GatherErr)
	assert.Equal(t, 4, summary.Succeeded())

	calls := adj.gatherCalls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0], 4, "only successful values reach gather")
	for _, v := range calls[0] {
		assert.NotEqual(t, filepath.Base(poison), v)
	}
}

func TestAdjointRun_AllFilesFailedStillGathers(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 3)
	outPath := filepath.Join(t.TempDir(), "combined.json")

	adj := newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		return nil, fmt.Errorf("nope")
	})
	exec, err := batch.New(adj)
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: outPath})
	require.NoError(t, err)
	summary := run.Wait()

	require.NoError(t, summary.GatherErr)
	assert.Equal(t, 0, summary.Succeeded())

	calls := adj.gatherCalls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0], "gather still runs, with an empty collection")
}

func TestAdjointRun_GatherFailure(t *testing.T) {
	ctx := testCtx(t)
	files := inputFiles(t, 2)
	outPath := filepath.Join(t.TempDir(), "combined.json")

	adj := newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		return 1, nil
	})
	adj.gatherFn = func(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) error {
		return fmt.Errorf("disk full")
	}
	exec, err := batch.New(adj)
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: outPath})
	require.NoError(t, err)
	summary := run.Wait()

	require.Error(t, summary.GatherErr)
	var gatherErr *batch.GatherError
	require.ErrorAs(t, summary.GatherErr, &gatherErr)
	assert.Contains(t, gatherErr.Error(), "disk full")
	assert.Empty(t, summary.Artifact)
	assert.Equal(t, 2, summary.Succeeded(), "file results survive a gather failure")
}

func TestAdjointRun_GatherPanicBecomesError(t *testing.T) {
	ctx := testCtx(t)
	outPath := filepath.Join(t.TempDir(), "combined.json")

	adj := newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		return 1, nil
	})
	adj.gatherFn = func(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) error {
		panic("cannot combine")
	}
	exec, err := batch.New(adj)
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: inputFiles(t, 2), OutputTarget: outPath})
	require.NoError(t, err)
	summary := run.Wait()

	require.Error(t, summary.GatherErr)
	assert.Contains(t, summary.GatherErr.Error(), "cannot combine")
}

func TestAdjointRun_RejectsDirectoryTarget(t *testing.T) {
	ctx := testCtx(t)

	exec, err := batch.New(newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		return nil, nil
	}))
	require.NoError(t, err)

	_, err = exec.Run(ctx, batch.Job{Files: inputFiles(t, 1), OutputTarget: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrInvalidOutputTarget)
}

func TestRun_CancellationAccountsForEveryFile(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx(t))
	defer cancel()
	files := inputFiles(t, 4)

	exec, err := batch.New(newFakeIndividual(
		func(c context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
			if file == files[0] {
				cancel()
			}
			return writeArtifact(c, file, outputDir, format)
		}))
	require.NoError(t, err)

	// One worker makes the schedule deterministic: the first file cancels
	// the run, the rest are refused at entry.
	run, err := exec.Run(ctx, batch.Job{Files: files, OutputTarget: t.TempDir(), MaxWorkers: 1})
	require.NoError(t, err)
	summary := run.Wait()

	require.Len(t, summary.Results, 4, "every admitted file must yield a result")
	assert.Equal(t, 1, summary.Succeeded())
	for _, res := range summary.Results[1:] {
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "canceled")
	}
}

func TestAdjointRun_CanceledRunSkipsGather(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx(t))
	cancel()

	adj := newFakeAdjoint(func(ctx context.Context, file string) (any, error) {
		return 1, nil
	})
	exec, err := batch.New(adj)
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{
		Files:        inputFiles(t, 2),
		OutputTarget: filepath.Join(t.TempDir(), "combined.json"),
	})
	require.NoError(t, err)
	summary := run.Wait()

	assert.Empty(t, adj.gatherCalls(), "gather must not run for a canceled batch")
	require.Error(t, summary.GatherErr)
	assert.Contains(t, summary.GatherErr.Error(), "canceled")
	assert.Equal(t, 0, summary.Succeeded())
}

func TestNew_RejectsUnsupportedCategories(t *testing.T) {
	tests := []struct {
		name string
		proc processor.Processor
	}{
		{
			name: "unknown_category",
			proc: &descriptorOnly{desc: processor.Descriptor{Name: "mystery", Category: processor.CategoryUnknown}},
		},
		{
			name: "individual_claim_without_implementation",
			proc: &descriptorOnly{desc: processor.Descriptor{Name: "liar", Category: processor.CategoryIndividual}},
		},
		{
			name: "adjoint_claim_without_implementation",
			proc: &descriptorOnly{desc: processor.Descriptor{Name: "liar2", Category: processor.CategoryAdjoint}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := batch.New(tt.proc)
			require.Error(t, err)
			assert.ErrorIs(t, err, batch.ErrUnsupportedCategory)
			assert.Contains(t, err.Error(), tt.proc.Describe().Name)
		})
	}
}

type descriptorOnly struct {
	desc processor.Descriptor
}

func (d *descriptorOnly) Describe() processor.Descriptor {
	return d.desc
}

func TestMultiObserver_FansOutInOrder(t *testing.T) {
	ctx := testCtx(t)

	var order []string
	first := &namedObserver{name: "first", order: &order}
	second := &namedObserver{name: "second", order: &order}

	exec, err := batch.New(newFakeIndividual(writeArtifact))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: inputFiles(t, 1), OutputTarget: t.TempDir()}, first, second)
	require.NoError(t, err)
	run.Wait()

	require.Len(t, order, 6)
	assert.Equal(t, []string{
		"first:start", "second:start",
		"first:file", "second:file",
		"first:done", "second:done",
	}, order)
}

type namedObserver struct {
	name  string
	order *[]string
}

func (o *namedObserver) OnStart(batch.StartEvent) {
	*o.order = append(*o.order, o.name+":start")
}

func (o *namedObserver) OnFileComplete(batch.FileEvent) {
	*o.order = append(*o.order, o.name+":file")
}

func (o *namedObserver) OnComplete(batch.DoneEvent) {
	*o.order = append(*o.order, o.name+":done")
}

func TestRun_DoneChannelAndID(t *testing.T) {
	ctx := testCtx(t)

	exec, err := batch.New(newFakeIndividual(writeArtifact))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: inputFiles(t, 2), OutputTarget: t.TempDir()})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID())

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not complete in time")
	}

	// After Done, accessors return immediately and consistently.
	assert.Len(t, run.Results(), 2)
	assert.Equal(t, run.Wait().Results, run.Results())
}

func TestIndividualRun_UsesDefaultFormatWhenUnset(t *testing.T) {
	ctx := testCtx(t)

	var got processor.SaveFormat
	exec, err := batch.New(newFakeIndividual(
		func(c context.Context, file, outputDir string, format processor.SaveFormat) (string, error) {
			got = format
			return writeArtifact(c, file, outputDir, format)
		}))
	require.NoError(t, err)

	run, err := exec.Run(ctx, batch.Job{Files: inputFiles(t, 1), OutputTarget: t.TempDir()})
	require.NoError(t, err)
	run.Wait()

	assert.Equal(t, "txt", got.Ext, "zero job format must resolve to the descriptor default")
}
