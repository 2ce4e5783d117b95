/*
Responsibilities
- Persist crawled documents in the configured output format
- Apply the configured naming strategy when choosing a destination path
- Ensure deterministic, overwrite-safe filenames

Output Characteristics
- Stable directory layout
- Idempotent writes
- Overwrite-safe reruns
*/
package storage

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/naming"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/fileutil"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

// SinkParam carries the output settings that are only known once config is
// loaded, applied to a Sink via Configure after construction.
type SinkParam struct {
	OutputDir      string
	NamingStrategy config.NamingStrategy
	HashAlgo       hashutil.HashAlgo
	Format         config.OutputFormat
}

// Sink is the write side of the crawl: one NormalizedMarkdownDoc in,
// one persisted artifact out. Constructed before config is available
// (mirrors robots.Robot and frontier.Frontier), then Configure'd once
// ExecuteCrawling has loaded it.
type Sink interface {
	Configure(param SinkParam)
	Write(normalizedDoc normalize.NormalizedMarkdownDoc) (WriteResult, failure.ClassifiedError)
	Close() error
}

// DispatchSink picks the concrete writer for param.Format at Write time.
// All three writers share the same naming and metadata-recording
// conventions; only the on-disk representation differs.
type DispatchSink struct {
	metadataSink metadata.MetadataSink
	param        SinkParam
	sqlite       *sqliteWriter
}

func NewSink(metadataSink metadata.MetadataSink) *DispatchSink {
	return &DispatchSink{metadataSink: metadataSink}
}

func (s *DispatchSink) Configure(param SinkParam) {
	s.param = param
}

func (s *DispatchSink) Write(normalizedDoc normalize.NormalizedMarkdownDoc) (WriteResult, failure.ClassifiedError) {
	switch s.param.Format {
	case config.OutputFormatJSON:
		return s.writeJSON(normalizedDoc)
	case config.OutputFormatSQLite:
		return s.writeSQLite(normalizedDoc)
	default:
		return s.writeMarkdown(normalizedDoc)
	}
}

// Close releases the SQLite connection, if one was opened. It is a no-op
// for the markdown and JSON writers, which hold no persistent handle.
func (s *DispatchSink) Close() error {
	if s.sqlite == nil {
		return nil
	}
	return s.sqlite.Close()
}

func (s *DispatchSink) writeMarkdown(normalizedDoc normalize.NormalizedMarkdownDoc) (WriteResult, failure.ClassifiedError) {
	writeResult, err := writeMarkdownFile(s.param.OutputDir, normalizedDoc, s.param.NamingStrategy, s.param.HashAlgo)
	return s.finish(normalizedDoc, metadata.ArtifactMarkdown, "DispatchSink.Write(markdown)", writeResult, err)
}

func (s *DispatchSink) writeJSON(normalizedDoc normalize.NormalizedMarkdownDoc) (WriteResult, failure.ClassifiedError) {
	writeResult, err := writeJSONFile(s.param.OutputDir, normalizedDoc, s.param.NamingStrategy, s.param.HashAlgo)
	return s.finish(normalizedDoc, metadata.ArtifactJSON, "DispatchSink.Write(json)", writeResult, err)
}

func (s *DispatchSink) writeSQLite(normalizedDoc normalize.NormalizedMarkdownDoc) (WriteResult, failure.ClassifiedError) {
	if s.sqlite == nil {
		writer, err := openSQLiteWriter(s.param.OutputDir)
		if err != nil {
			return s.finish(normalizedDoc, metadata.ArtifactSQLite, "DispatchSink.Write(sqlite)", WriteResult{}, err)
		}
		s.sqlite = writer
	}
	writeResult, err := s.sqlite.write(normalizedDoc, s.param.HashAlgo)
	return s.finish(normalizedDoc, metadata.ArtifactSQLite, "DispatchSink.Write(sqlite)", writeResult, err)
}

// finish applies the shared RecordError/RecordArtifact bookkeeping every
// writer needs, regardless of output format.
func (s *DispatchSink) finish(
	normalizedDoc normalize.NormalizedMarkdownDoc,
	kind metadata.ArtifactKind,
	action string,
	writeResult WriteResult,
	err *StorageError,
) (WriteResult, failure.ClassifiedError) {
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			action,
			mapStorageErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, normalizedDoc.Frontmatter().SourceURL()),
				metadata.NewAttr(metadata.AttrWritePath, err.Path),
			},
		)
		return WriteResult{}, err
	}
	s.metadataSink.RecordArtifact(
		kind,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrURL, normalizedDoc.Frontmatter().SourceURL()),
			metadata.NewAttr(metadata.AttrField, writeResult.URLHash()),
			metadata.NewAttr(metadata.AttrField, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

// resolvePath runs the configured naming strategy and ensures the parent
// directory of the resulting path exists.
func resolvePath(outputDir string, canonicalURL string, namingStrategy config.NamingStrategy, hashAlgo hashutil.HashAlgo, ext string) (string, *StorageError) {
	rel, err := naming.Resolve(namingStrategy, canonicalURL, hashAlgo, ext)
	if err != nil {
		return "", &StorageError{Message: err.Error(), Retryable: false, Cause: ErrCauseHashComputationFailed, Path: ""}
	}
	fullPath := filepath.Join(outputDir, rel)
	if dirErr := fileutil.EnsureDir(filepath.Dir(fullPath)); dirErr != nil {
		var fileErr *fileutil.FileError
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.As(dirErr, &fileErr) && fileErr.Cause == fileutil.ErrCausePathError {
			cause = ErrCausePathError
			retryable = true
		}
		return "", &StorageError{Message: dirErr.Error(), Retryable: retryable, Cause: cause, Path: fullPath}
	}
	return fullPath, nil
}
