package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellsense/internal/dataprocessing"
	apierrors "cellsense/internal/errors"
	"cellsense/internal/shared/testutil"
)

func TestFileValidator_ValidateUpload(t *testing.T) {
	v := NewFileValidator(100, nil)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantType apierrors.ErrorType
	}{
		{name: "xlsx ok", filename: "ledger.xlsx", size: 10},
		{name: "xls upper case ok", filename: "LEDGER.XLS", size: 100},
		{name: "missing name", filename: " ", size: 10, wantType: apierrors.ErrTypeValidation},
		{name: "csv rejected", filename: "ledger.csv", size: 10, wantType: apierrors.ErrTypeUnsupported},
		{name: "empty file", filename: "ledger.xlsx", size: 0, wantType: apierrors.ErrTypeValidation},
		{name: "too large", filename: "ledger.xlsx", size: 101, wantType: apierrors.ErrTypeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			var appErr *apierrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type)
		})
	}
}

func TestFileValidator_UnsupportedWrapsSentinel(t *testing.T) {
	err := NewFileValidator(0, nil).ValidateUpload("notes.txt", 5)
	assert.ErrorIs(t, err, dataprocessing.ErrUnsupportedFileType)
}

func TestFileValidator_NoLimit(t *testing.T) {
	assert.NoError(t, NewFileValidator(0, nil).ValidateUpload("big.xlsx", 1<<40))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(0, nil)

	good := filepath.Join(dir, "ledger.xlsx")
	require.NoError(t, os.WriteFile(good, testutil.WorkbookBytes(t, testutil.SampleLedgerRows()), 0o600))

	assert.NoError(t, v.ValidateFile(good))
	assert.ErrorContains(t, v.ValidateFile(filepath.Join(dir, "missing.xlsx")), "does not exist")
	assert.ErrorContains(t, v.ValidateFile(dir), "is a directory")
}

func TestFileValidator_ExpandInputs(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	v := NewFileValidator(0, logger)

	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xls", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xlsx"), 0o755))
	empty := t.TempDir()
	single := filepath.Join(t.TempDir(), "single.xlsx")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o600))

	paths, err := v.ExpandInputs([]string{single, dir, empty})
	require.NoError(t, err)

	assert.Equal(t, []string{single, filepath.Join(dir, "a.xls"), filepath.Join(dir, "b.xlsx")}, paths)
	assert.True(t, logs.ContainsMessage("no spreadsheets found in directory"))

	_, err = v.ExpandInputs([]string{filepath.Join(dir, "absent")})
	assert.Error(t, err)
}
