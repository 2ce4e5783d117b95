package storage

import (
	"errors"
	"os"
	"syscall"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

// writeMarkdownFile renders normalizedDoc.Content() verbatim (frontmatter
// is already embedded by the normalize stage) to the path the naming
// strategy resolves for this document.
func writeMarkdownFile(
	outputDir string,
	normalizedDoc normalize.NormalizedMarkdownDoc,
	namingStrategy config.NamingStrategy,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, *StorageError) {
	canonicalURL := normalizedDoc.Frontmatter().CanonicalURL()
	fullPath, err := resolvePath(outputDir, canonicalURL, namingStrategy, hashAlgo, ".md")
	if err != nil {
		return WriteResult{}, err
	}

	urlHashFull, hashErr := hashutil.HashBytes([]byte(canonicalURL), hashAlgo)
	if hashErr != nil {
		return WriteResult{}, &StorageError{Message: hashErr.Error(), Retryable: false, Cause: ErrCauseHashComputationFailed}
	}

	if writeErr := os.WriteFile(fullPath, normalizedDoc.Content(), 0644); writeErr != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(writeErr, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return WriteResult{}, &StorageError{Message: writeErr.Error(), Retryable: retryable, Cause: cause, Path: fullPath}
	}

	return NewWriteResult(urlHashFull[:12], fullPath, normalizedDoc.Frontmatter().ContentHash()), nil
}
