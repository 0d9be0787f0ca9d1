package extract

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	grailerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"

	"github.com/ncbi/fasterq/sra"
)

// Extractor runs the partitioned or fast-path join over one table.
type Extractor struct {
	// Accession names the partition files this extractor writes:
	// <TempDir>/<Accession>.<thread_id>[.<dst_id>].part.
	Accession string
	// TempDir is the directory partition files are written into.
	TempDir string
	// Progress, if non-nil, receives one Inc() per spot consumed across all
	// worker threads.
	Progress Progress
}

// partitionRows implements step 3 of the algorithm in spec.md §4.6:
// rows_per_thread = ceil(row_count / num_threads), then threads actually
// spawned is reduced until the last one would not be empty.
func partitionRows(rowCount int64, numThreads int) (threads int, rowsPerThread int64) {
	if numThreads < 1 {
		numThreads = 1
	}
	rowsPerThread = (rowCount + int64(numThreads) - 1) / int64(numThreads)
	threads = numThreads
	for threads > 1 && int64(threads-1)*rowsPerThread >= rowCount {
		threads--
	}
	return threads, rowsPerThread
}

func threadRange(threadID int, rowsPerThread, rowCount int64) (first, count int64) {
	first = int64(threadID) * rowsPerThread
	count = rowsPerThread
	if first+count > rowCount {
		count = rowCount - first
	}
	return first, count
}

// RunPartitioned splits [0, row_count) across numThreads workers, each
// writing its own PartitionWriter, and returns the aggregated JoinStats. The
// returned error, if any, is the lowest-thread-id worker's error.
func (e *Extractor) RunPartitioned(ctx context.Context, table sra.Table, mode LayoutMode, jo JoinOptions, numThreads int, registry *TempRegistry) (JoinStats, error) {
	rowCount, err := table.RowCount(ctx)
	if err != nil {
		return JoinStats{}, errors.Wrap(ErrSourceOpen, err.Error())
	}
	if rowCount == 0 {
		return JoinStats{}, nil
	}
	if !table.HasName() {
		jo.RowIDAsName = true
	}
	threads, rowsPerThread := partitionRows(rowCount, numThreads)

	quit := &QuitFlag{}
	errs := make([]error, threads)
	statsArr := make([]JoinStats, threads)

	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		first, count := threadRange(t, rowsPerThread, rowCount)
		wg.Add(1)
		go func(threadID int, first, count int64) {
			defer wg.Done()
			st, werr := e.runWorker(ctx, table, mode, jo, threadID, first, count, registry, quit)
			statsArr[threadID] = st
			errs[threadID] = werr
			if werr != nil {
				quit.Set()
			}
		}(t, first, count)
	}
	wg.Wait()

	var total JoinStats
	for _, st := range statsArr {
		total = total.Merge(st)
	}
	for _, werr := range errs {
		if werr != nil {
			return total, werr
		}
	}
	return total, nil
}

func (e *Extractor) runWorker(ctx context.Context, table sra.Table, mode LayoutMode, jo JoinOptions, threadID int, first, count int64, registry *TempRegistry, quit *QuitFlag) (JoinStats, error) {
	var stats JoinStats
	once := grailerrors.Once{}

	src, err := OpenSpotSource(ctx, table, first, count, mode, jo)
	if err != nil {
		return stats, err
	}
	pw := NewPartitionWriter(ctx, e.TempDir, e.Accession, threadID, mode, jo, registry)
	filter := NewBaseFilter(jo.FilterBases)

	for src.Next() {
		if quit.Get() {
			break
		}
		rec := src.Record()
		formatted, delta, ferr := Format(rec, jo, mode, filter)
		stats = stats.Merge(delta)
		incProgress(e.Progress)
		if ferr != nil {
			once.Set(ferr)
			break
		}
		wroteErr := false
		for _, fr := range formatted {
			if werr := pw.WriteRecord(fr); werr != nil {
				once.Set(werr)
				wroteErr = true
				break
			}
		}
		if wroteErr {
			break
		}
	}
	once.Set(src.Err())
	once.Set(src.Close())
	once.Set(pw.Close())
	return stats, once.Err()
}

// RunFast runs the fast path: FastaSplitSpot-equivalent layout, all workers
// sharing one MultiWriter that funnels into outputPath, or stdout when
// outputPath is empty.
func (e *Extractor) RunFast(ctx context.Context, table sra.Table, jo JoinOptions, numThreads int, outputPath string) (JoinStats, error) {
	rowCount, err := table.RowCount(ctx)
	if err != nil {
		return JoinStats{}, errors.Wrap(ErrSourceOpen, err.Error())
	}
	if rowCount == 0 {
		return JoinStats{}, nil
	}
	if !table.HasName() {
		jo.RowIDAsName = true
	}
	const mode = FastaSplitSpot

	var dst io.Writer
	var closeOutput func() error
	if outputPath == "" {
		dst = os.Stdout
		closeOutput = func() error { return nil }
	} else {
		f, cerr := file.Create(ctx, outputPath)
		if cerr != nil {
			return JoinStats{}, errors.Wrap(ErrWriteFail, cerr.Error())
		}
		dst = f.Writer(ctx)
		closeOutput = func() error { return f.Close(ctx) }
	}
	mw := NewMultiWriter(dst, 0)

	threads, rowsPerThread := partitionRows(rowCount, numThreads)
	quit := &QuitFlag{}
	errs := make([]error, threads)
	statsArr := make([]JoinStats, threads)

	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		first, count := threadRange(t, rowsPerThread, rowCount)
		wg.Add(1)
		go func(threadID int, first, count int64) {
			defer wg.Done()
			st, werr := e.runFastWorker(ctx, table, mode, jo, threadID, first, count, mw, quit)
			statsArr[threadID] = st
			errs[threadID] = werr
			if werr != nil {
				quit.Set()
			}
		}(t, first, count)
	}
	wg.Wait()

	once := grailerrors.Once{}
	once.Set(mw.Close())
	once.Set(closeOutput())

	var total JoinStats
	for _, st := range statsArr {
		total = total.Merge(st)
	}
	for _, werr := range errs {
		if werr != nil {
			return total, werr
		}
	}
	return total, once.Err()
}

func (e *Extractor) runFastWorker(ctx context.Context, table sra.Table, mode LayoutMode, jo JoinOptions, threadID int, first, count int64, mw *MultiWriter, quit *QuitFlag) (JoinStats, error) {
	var stats JoinStats
	once := grailerrors.Once{}

	src, err := OpenSpotSource(ctx, table, first, count, mode, jo)
	if err != nil {
		return stats, err
	}
	filter := NewBaseFilter(jo.FilterBases)

	for src.Next() {
		if quit.Get() {
			break
		}
		rec := src.Record()
		formatted, delta, ferr := Format(rec, jo, mode, filter)
		stats = stats.Merge(delta)
		incProgress(e.Progress)
		if ferr != nil {
			once.Set(ferr)
			break
		}
		if len(formatted) == 0 {
			continue
		}
		var buf bytes.Buffer
		bw := bufio.NewWriter(&buf)
		encErr := false
		for _, fr := range formatted {
			if werr := writeRecordText(bw, fr, mode.IsFastq(), jo.PrintReadNr); werr != nil {
				once.Set(errors.Wrap(ErrWriteFail, werr.Error()))
				encErr = true
				break
			}
		}
		if encErr {
			break
		}
		if werr := bw.Flush(); werr != nil {
			once.Set(errors.Wrap(ErrWriteFail, werr.Error()))
			break
		}
		if werr := mw.Enqueue(ctx, buf.Bytes()); werr != nil {
			once.Set(errors.Wrap(ErrWriteFail, werr.Error()))
			break
		}
	}
	once.Set(src.Err())
	once.Set(src.Close())
	return stats, once.Err()
}
