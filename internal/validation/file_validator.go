package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "sicli/internal/errors"
	"sicli/internal/files"
)

// FileValidator runs the pre-flight checks of a processing run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewNotFoundError("input directory " + dir)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat input directory", err).WithContext("directory", dir)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}

// ValidateOutputDirectory ensures the output directory exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks that path is an existing, readable regular file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError("file " + path)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSubjectFiles checks every <base>_<id><ext> file up front so that
// all missing subjects are reported together.
func (v *FileValidator) ValidateSubjectFiles(base string, subjects []int, ext string) error {
	return v.validateAll(subjects, func(id int) string { return files.SubjectFileName(base, id, ext) })
}

// ValidateForceFiles is ValidateSubjectFiles for force recordings.
func (v *FileValidator) ValidateForceFiles(base string, subjects []int, ext string) error {
	return v.validateAll(subjects, func(id int) string { return files.ForceFileName(base, id, ext) })
}

func (v *FileValidator) validateAll(subjects []int, path func(int) string) error {
	var missing []string
	for _, id := range subjects {
		err := v.ValidateFile(path(id))
		if err == nil {
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			return err
		}
		missing = append(missing, strconv.Itoa(id))
	}
	if len(missing) == 0 {
		return nil
	}

	v.logger.Error("Subject files missing",
		slog.String("subjects", strings.Join(missing, ",")))
	return apperrors.NewNotFoundError(fmt.Sprintf("files for subjects %s", strings.Join(missing, ", "))).
		WithContext("subjects", missing)
}
