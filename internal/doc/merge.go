package doc

import (
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Merge concatenates the given PDF files into a new document at outPath,
// pages in argument order.
func Merge(inPaths []string, outPath string) error {
	if len(inPaths) < 2 {
		return fmt.Errorf("merge: need at least two input files, got %d", len(inPaths))
	}
	if err := pdfapi.MergeCreateFile(inPaths, outPath, false, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	return nil
}
