package extract

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// RegisteredPath is one partition file a PartitionWriter produced.
type RegisteredPath struct {
	Path     string
	ThreadID int
	DstID    uint32
}

// TempRegistry collects the partition files every worker thread writes, so
// an outer reassembly stage can find and concatenate them. Safe for
// concurrent Register calls, mirroring the concurrent bookkeeping map the
// teacher's sharded BAM writer keeps for its per-shard temp files.
type TempRegistry struct {
	mu    sync.Mutex
	paths []RegisteredPath
}

// Register records that threadID wrote dstID's stream to path.
func (r *TempRegistry) Register(path string, threadID int, dstID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, RegisteredPath{Path: path, ThreadID: threadID, DstID: dstID})
}

// Paths returns a snapshot of every path registered so far.
func (r *TempRegistry) Paths() []RegisteredPath {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RegisteredPath, len(r.paths))
	copy(out, r.paths)
	return out
}

type partitionStream struct {
	f    file.File
	w    *bufio.Writer
	path string
}

// PartitionWriter is one worker thread's output: one buffered file per
// dst_id, created lazily on first write, named
// <temp_dir>/<accession>.<thread_id>.part (dst_id 0) or
// <temp_dir>/<accession>.<thread_id>.<dst_id>.part (dst_id > 0). Grounded on
// the buffer-then-flush shape of the teacher's sortShardWriter, simplified to
// one handle per stream instead of one handle per sorted run.
type PartitionWriter struct {
	ctx         context.Context
	tempDir     string
	accession   string
	threadID    int
	isFastq     bool
	printReadNr bool
	registry    *TempRegistry

	streams map[uint32]*partitionStream
}

// NewPartitionWriter returns a PartitionWriter for one worker thread.
func NewPartitionWriter(ctx context.Context, tempDir, accession string, threadID int, mode LayoutMode, jo JoinOptions, registry *TempRegistry) *PartitionWriter {
	return &PartitionWriter{
		ctx:         ctx,
		tempDir:     tempDir,
		accession:   accession,
		threadID:    threadID,
		isFastq:     mode.IsFastq(),
		printReadNr: jo.PrintReadNr,
		registry:    registry,
		streams:     make(map[uint32]*partitionStream),
	}
}

func (w *PartitionWriter) pathFor(dstID uint32) string {
	if dstID == 0 {
		return filepath.Join(w.tempDir, fmt.Sprintf("%s.%d.part", w.accession, w.threadID))
	}
	return filepath.Join(w.tempDir, fmt.Sprintf("%s.%d.%d.part", w.accession, w.threadID, dstID))
}

func (w *PartitionWriter) streamFor(dstID uint32) (*partitionStream, error) {
	if s, ok := w.streams[dstID]; ok {
		return s, nil
	}
	path := w.pathFor(dstID)
	f, err := file.Create(w.ctx, path)
	if err != nil {
		return nil, errors.Wrapf(ErrWriteFail, "create %s: %v", path, err)
	}
	s := &partitionStream{f: f, w: bufio.NewWriter(f.Writer(w.ctx)), path: path}
	w.streams[dstID] = s
	return s, nil
}

// WriteRecord encodes rec as FASTQ or FASTA text (per the mode this writer
// was built for) and appends it to the stream for rec.DstID.
func (w *PartitionWriter) WriteRecord(rec FormattedRecord) error {
	s, err := w.streamFor(rec.DstID)
	if err != nil {
		return err
	}
	if err := writeRecordText(s.w, rec, w.isFastq, w.printReadNr); err != nil {
		return errors.Wrapf(ErrWriteFail, "write %s: %v", s.path, err)
	}
	return nil
}

// Close flushes and closes every open stream, registering each with the
// TempRegistry. It returns the first error encountered but still attempts to
// close every stream.
func (w *PartitionWriter) Close() error {
	var firstErr error
	for dstID, s := range w.streams {
		if err := s.w.Flush(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(ErrWriteFail, err.Error())
		}
		if err := s.f.Close(w.ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrap(ErrWriteFail, err.Error())
		}
		if w.registry != nil {
			w.registry.Register(s.path, w.threadID, dstID)
		}
	}
	return firstErr
}

// writeRecordText writes one FASTQ or FASTA record in the exact layout
// spec.md fixes: a defline, the bases, and (FASTQ only) a "+" line and
// quality line, each terminated with a bare \n.
func writeRecordText(w *bufio.Writer, rec FormattedRecord, isFastq, printReadNr bool) error {
	prefix := byte('>')
	if isFastq {
		prefix = '@'
	}
	if err := w.WriteByte(prefix); err != nil {
		return err
	}
	if rec.HasName {
		if _, err := w.WriteString(rec.Name); err != nil {
			return err
		}
	} else {
		if _, err := w.WriteString(strconv.FormatInt(rec.RowID, 10)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, " length=%d", len(rec.Bases)); err != nil {
		return err
	}
	if printReadNr {
		if _, err := fmt.Fprintf(w, " read=%d", rec.ReadID1Based); err != nil {
			return err
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := w.Write(rec.Bases); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if !isFastq {
		return nil
	}
	if err := w.WriteByte('+'); err != nil {
		return err
	}
	if rec.HasName {
		if _, err := w.WriteString(rec.Name); err != nil {
			return err
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := w.Write(rec.Quality); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
