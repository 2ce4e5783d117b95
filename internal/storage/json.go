package storage

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonDocument is the on-disk shape of the --format json output: the same
// frontmatter fields the markdown sink embeds as YAML, alongside the
// normalized content as a plain string field instead of a markdown body.
type jsonDocument struct {
	Title          string `json:"title"`
	SourceURL      string `json:"sourceUrl"`
	CanonicalURL   string `json:"canonicalUrl"`
	CrawlDepth     int    `json:"crawlDepth"`
	Section        string `json:"section,omitempty"`
	DocID          string `json:"docId"`
	ContentHash    string `json:"contentHash"`
	CrawlerVersion string `json:"crawlerVersion"`
	Content        string `json:"content"`
}

// writeJSONFile serializes normalizedDoc's frontmatter and content as a
// single JSON document at the path the naming strategy resolves.
func writeJSONFile(
	outputDir string,
	normalizedDoc normalize.NormalizedMarkdownDoc,
	namingStrategy config.NamingStrategy,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, *StorageError) {
	fm := normalizedDoc.Frontmatter()
	canonicalURL := fm.CanonicalURL()
	fullPath, err := resolvePath(outputDir, canonicalURL, namingStrategy, hashAlgo, ".json")
	if err != nil {
		return WriteResult{}, err
	}

	urlHashFull, hashErr := hashutil.HashBytes([]byte(canonicalURL), hashAlgo)
	if hashErr != nil {
		return WriteResult{}, &StorageError{Message: hashErr.Error(), Retryable: false, Cause: ErrCauseHashComputationFailed}
	}

	doc := jsonDocument{
		Title:          fm.Title(),
		SourceURL:      fm.SourceURL(),
		CanonicalURL:   canonicalURL,
		CrawlDepth:     fm.CrawlDepth(),
		Section:        fm.Section(),
		DocID:          fm.DocID(),
		ContentHash:    fm.ContentHash(),
		CrawlerVersion: fm.CrawlerVersion(),
		Content:        string(normalizedDoc.Content()),
	}

	body, marshalErr := jsonAPI.MarshalIndent(doc, "", "  ")
	if marshalErr != nil {
		return WriteResult{}, &StorageError{Message: marshalErr.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: fullPath}
	}

	if writeErr := os.WriteFile(fullPath, body, 0644); writeErr != nil {
		return WriteResult{}, &StorageError{Message: writeErr.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: fullPath}
	}

	return NewWriteResult(urlHashFull[:12], fullPath, fm.ContentHash()), nil
}
