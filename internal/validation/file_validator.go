package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cellsense/internal/dataprocessing"
	apierrors "cellsense/internal/errors"
)

// FileValidator checks spreadsheet uploads and CLI inputs before parsing.
type FileValidator struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewFileValidator creates a validator rejecting files above maxBytes;
// zero disables the size check.
func NewFileValidator(maxBytes int64, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "file_validator")),
	}
}

// MaxBytes is the configured size limit.
func (v *FileValidator) MaxBytes() int64 { return v.maxBytes }

// ValidateUpload checks an uploaded file's name and size.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return apierrors.NewAppValidationError("a file is required", nil)
	}

	if !dataprocessing.IsSupportedFile(filename) {
		v.logger.Debug("rejected file type", slog.String("filename", filename))
		return apierrors.NewUnsupportedError("Only Excel files (.xlsx, .xls) are supported",
			dataprocessing.ErrUnsupportedFileType).WithContext("filename", filename)
	}

	if size == 0 {
		return apierrors.NewAppValidationError("uploaded file is empty", nil).WithContext("filename", filename)
	}

	if v.maxBytes > 0 && size > v.maxBytes {
		return apierrors.NewTooLargeError(
			fmt.Sprintf("file exceeds the %d byte upload limit", v.maxBytes), nil,
		).WithContext("filename", filename).WithContext("max_bytes", v.maxBytes)
	}

	return nil
}

// ValidateFile checks that path is a readable spreadsheet within the size limit.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	return v.ValidateUpload(filepath.Base(path), info.Size())
}

// ExpandInputs turns CLI arguments into spreadsheet paths. Directories
// contribute their supported files (not recursive), sorted by name.
func (v *FileValidator) ExpandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && dataprocessing.IsSupportedFile(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		if len(found) == 0 {
			v.logger.Warn("no spreadsheets found in directory", slog.String("directory", arg))
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
