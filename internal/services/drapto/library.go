package drapto

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	draptolib "github.com/five82/drapto"
)

// Archiver produces the AV1 archive copy of a rendered cut.
type Archiver interface {
	Archive(ctx context.Context, inputPath, outputDir string, progress func(ProgressUpdate)) (string, error)
}

// Library implements Archiver using the Drapto Go library directly.
type Library struct {
	encode func(ctx context.Context, inputPath, outputDir string, rep draptolib.Reporter) error
}

// NewLibrary constructs a Library archiver.
func NewLibrary() *Library {
	return &Library{encode: encodeWithDrapto}
}

func encodeWithDrapto(ctx context.Context, inputPath, outputDir string, rep draptolib.Reporter) error {
	enc, err := draptolib.New(draptolib.WithResponsive())
	if err != nil {
		return err
	}
	_, err = enc.EncodeWithReporter(ctx, inputPath, outputDir, rep)
	return err
}

// Archive encodes inputPath into outputDir and returns the archive path.
func (l *Library) Archive(ctx context.Context, inputPath, outputDir string, progress func(ProgressUpdate)) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", errors.New("input path required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", errors.New("output directory required")
	}

	var rep draptolib.Reporter
	if progress != nil {
		rep = newArchiveReporter(progress)
	}
	if err := l.encode(ctx, inputPath, outputDir, rep); err != nil {
		return "", err
	}
	return OutputPath(inputPath, outputDir), nil
}

// OutputPath returns where Drapto writes the archive for inputPath.
func OutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(strings.TrimSpace(outputDir), stem+".mkv")
}

var _ Archiver = (*Library)(nil)
