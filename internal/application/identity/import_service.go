package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	csvimport "github.com/dormhub/backend/internal/infrastructure/import"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Roster columns. username and password are mandatory.
const (
	colUsername    = "username"
	colPassword    = "password"
	colRole        = "role"
	colDisplayName = "display_name"
	colEmail       = "email"
)

// MaxImportRows bounds the size of a single roster file
const MaxImportRows = 1000

// ConflictMode decides what happens to rows whose username already exists
type ConflictMode string

const (
	// ConflictSkip leaves existing accounts untouched and imports the rest
	ConflictSkip ConflictMode = "skip"
	// ConflictFail rejects the whole file when any username exists
	ConflictFail ConflictMode = "fail"
)

// ImportUsersInput contains input for a roster import
type ImportUsersInput struct {
	File         io.Reader
	ConflictMode ConflictMode
	// DryRun validates the file without creating accounts
	DryRun bool
}

// ImportUsersResult summarizes a roster import
type ImportUsersResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	DryRun       bool                 `json:"dry_run"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
}

type rosterEntry struct {
	line        int
	username    string
	password    string
	role        identity.Role
	displayName string
	email       string
}

// Import creates resident accounts from a CSV roster. Every row is validated
// before anything is written; a file with invalid rows creates no account.
func (s *UserService) Import(ctx context.Context, actor identity.Actor, input ImportUsersInput) (*ImportUsersResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	mode := input.ConflictMode
	if mode == "" {
		mode = ConflictSkip
	}
	if mode != ConflictSkip && mode != ConflictFail {
		return nil, shared.NewDomainError("INVALID_CONFLICT_MODE", "conflict_mode must be skip or fail")
	}

	parser, err := csvimport.NewCSVParser(input.File, csvimport.WithMaxRows(MaxImportRows))
	if err != nil {
		return nil, importFileError(err)
	}
	if missing := parser.MissingHeaders(colUsername, colPassword); len(missing) > 0 {
		return nil, shared.NewDomainError("IMPORT_MISSING_COLUMNS", "Missing columns: "+strings.Join(missing, ", "))
	}

	errs := csvimport.NewErrorCollection(100)
	rows, err := parser.ReadAll(errs)
	if err != nil {
		return nil, importFileError(err)
	}

	result := &ImportUsersResult{TotalRows: parser.TotalRows(), DryRun: input.DryRun}
	entries, err := s.validateRoster(ctx, actor, rows, mode, errs, result)
	if err != nil {
		return nil, err
	}
	if errs.HasErrors() || input.DryRun || len(entries) == 0 {
		return result.withErrors(errs), nil
	}

	users, err := buildRosterUsers(ctx, actor, entries)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveAll(ctx, users); err != nil {
		var batchErr *identity.BatchWriteError
		if !errors.As(err, &batchErr) || !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		// created concurrently since validation; the batch was rolled back
		entry := entries[batchErr.Index]
		errs.Add(csvimport.NewRowError(entry.line, colUsername, csvimport.ErrCodeImportDuplicateInDB,
			"Username already exists").WithValue(entry.username))
		return result.withErrors(errs), nil
	}
	result.ImportedRows = len(users)

	s.logger.Info("Roster imported",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.ImportedRows),
		zap.Int("skipped", result.SkippedRows))
	return result.withErrors(errs), nil
}

func (r *ImportUsersResult) withErrors(errs *csvimport.ErrorCollection) *ImportUsersResult {
	r.ErrorRows = errs.RowCount()
	r.Errors = errs.Errors()
	r.IsTruncated = errs.IsTruncated()
	return r
}

// validateRoster checks every row without hashing passwords
func (s *UserService) validateRoster(
	ctx context.Context,
	actor identity.Actor,
	rows []*csvimport.Row,
	mode ConflictMode,
	errs *csvimport.ErrorCollection,
	result *ImportUsersResult,
) ([]rosterEntry, error) {
	seen := make(map[string]int, len(rows))
	entries := make([]rosterEntry, 0, len(rows))

	for _, row := range rows {
		username := strings.ToLower(row.Get(colUsername))
		password := row.Get(colPassword)
		if username == "" {
			errs.AddRequired(row.Line, colUsername)
		}
		if password == "" {
			errs.AddRequired(row.Line, colPassword)
		}
		if errs.HasRow(row.Line) {
			continue
		}

		if first, dup := seen[username]; dup {
			errs.Add(csvimport.NewRowError(row.Line, colUsername, csvimport.ErrCodeImportDuplicateInFile,
				"Username repeats row "+strconv.Itoa(first)).WithValue(username))
			continue
		}
		seen[username] = row.Line

		exists, err := s.userRepo.ExistsByUsername(ctx, actor.TenantID, username)
		if err != nil {
			return nil, err
		}
		if exists {
			if mode == ConflictSkip {
				result.SkippedRows++
				continue
			}
			errs.Add(csvimport.NewRowError(row.Line, colUsername, csvimport.ErrCodeImportDuplicateInDB,
				"Username already exists").WithValue(username))
			continue
		}

		entry := rosterEntry{
			line:        row.Line,
			username:    username,
			password:    password,
			role:        identity.Role(strings.ToLower(row.GetOrDefault(colRole, string(identity.RoleResident)))),
			displayName: row.Get(colDisplayName),
			email:       row.Get(colEmail),
		}
		if err := identity.ValidateAccount(entry.username, entry.password, entry.role); err != nil {
			errs.Add(rowDomainError(row.Line, err, entry.role))
			continue
		}
		if err := identity.ValidateProfile(entry.displayName, entry.email); err != nil {
			errs.Add(rowDomainError(row.Line, err, entry.role))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// buildRosterUsers hashes passwords on a bounded number of goroutines
func buildRosterUsers(ctx context.Context, actor identity.Actor, entries []rosterEntry) ([]*identity.User, error) {
	users := make([]*identity.User, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			user, err := identity.NewUser(actor.TenantID, entry.username, entry.password, entry.role)
			if err != nil {
				return fmt.Errorf("row %d: %w", entry.line, err)
			}
			if err := user.SetProfile(entry.displayName, entry.email); err != nil {
				return fmt.Errorf("row %d: %w", entry.line, err)
			}
			user.CreatedBy = &actor.UserID
			users[i] = user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}

// rowDomainError attaches a domain validation failure to the column it concerns
func rowDomainError(line int, err error, role identity.Role) csvimport.RowError {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return csvimport.NewRowError(line, "", csvimport.ErrCodeImportInvalidValue, err.Error())
	}
	column := ""
	value := ""
	switch domainErr.Code {
	case "INVALID_USERNAME":
		column = colUsername
	case "INVALID_PASSWORD":
		column = colPassword
	case "INVALID_ROLE":
		column, value = colRole, string(role)
	case "INVALID_EMAIL":
		column = colEmail
	case "INVALID_DISPLAY_NAME":
		column = colDisplayName
	}
	return csvimport.NewRowError(line, column, csvimport.ErrCodeImportInvalidValue, domainErr.Message).WithValue(value)
}

func importFileError(err error) error {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile), errors.Is(err, csvimport.ErrNoDataRows),
		errors.Is(err, csvimport.ErrMissingHeader):
		return shared.NewDomainError("IMPORT_EMPTY_FILE", err.Error())
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		return shared.NewDomainError("IMPORT_INVALID_ENCODING", err.Error())
	case errors.Is(err, csvimport.ErrTooManyRows):
		return shared.NewDomainError("IMPORT_TOO_MANY_ROWS", err.Error())
	}
	return shared.NewDomainError("IMPORT_INVALID_FILE", err.Error())
}
