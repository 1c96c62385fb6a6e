package docstore

import (
	"context"
	"sort"
	"strings"
	"time"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

const (
	backupPrefix = "backup-"
	backupSuffix = ".json"
	backupLayout = "20060102-150405"
)

// Backup is a snapshot of the data file stored next to it in the container.
type Backup struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}

// BackupName returns the file name of a backup taken at t.
func BackupName(t time.Time) string {
	return backupPrefix + t.UTC().Format(backupLayout) + backupSuffix
}

// parseBackupName returns the snapshot time encoded in name.
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	t, err := time.Parse(backupLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CreateBackup copies the current data file to a timestamped backup,
// then prunes old backups beyond the configured retention.
func (s *Store) CreateBackup(ctx context.Context, acct *Account) (*Backup, error) {
	containerID, err := s.container(ctx, acct)
	if err != nil {
		return nil, err
	}

	content, found, err := s.files.ReadFile(ctx, acct.Credential, DataFileName, containerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("%s not found, nothing to back up", DataFileName)
	}

	now := s.opts.Now().UTC()
	b := &Backup{Name: BackupName(now), CreatedAt: now.Truncate(time.Second), Size: int64(len(content))}
	if err := s.files.WriteFile(ctx, acct.Credential, b.Name, content, containerID); err != nil {
		return nil, err
	}
	s.log.Info("backup created", logger.String("name", b.Name), logger.Int64("size", b.Size))

	if err := s.prune(ctx, acct, containerID); err != nil {
		s.log.Warn("backup pruning failed", logger.Error(err))
	}
	return b, nil
}

// ListBackups returns the backups in the container, newest first.
func (s *Store) ListBackups(ctx context.Context, acct *Account) ([]Backup, error) {
	containerID, err := s.container(ctx, acct)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListFiles(ctx, acct.Credential, containerID)
	if err != nil {
		return nil, err
	}
	return backupsOf(files), nil
}

func backupsOf(files []filestore.FileInfo) []Backup {
	out := make([]Backup, 0)
	for _, f := range files {
		t, ok := parseBackupName(f.Name)
		if !ok {
			continue
		}
		out = append(out, Backup{Name: f.Name, CreatedAt: t, Size: f.Size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) DeleteBackup(ctx context.Context, acct *Account, name string) error {
	if _, ok := parseBackupName(name); !ok {
		return apperr.Validation("not a backup file name: " + name)
	}

	backups, err := s.ListBackups(ctx, acct)
	if err != nil {
		return err
	}
	if !containsBackup(backups, name) {
		return apperr.NotFound("backup %s not found", name)
	}

	if err := s.files.DeleteFile(ctx, acct.Credential, name, acct.ContainerID); err != nil {
		return err
	}
	s.log.Info("backup deleted", logger.String("name", name))
	return nil
}

// RestoreBackup replaces the data file with the named backup. The backup
// must parse as a document; it is written back as-is.
func (s *Store) RestoreBackup(ctx context.Context, acct *Account, name string) error {
	if _, ok := parseBackupName(name); !ok {
		return apperr.Validation("not a backup file name: " + name)
	}
	containerID, err := s.container(ctx, acct)
	if err != nil {
		return err
	}

	content, found, err := s.files.ReadFile(ctx, acct.Credential, name, containerID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("backup %s not found", name)
	}
	if _, err := decode(content); err != nil {
		return err
	}

	if err := s.files.WriteFile(ctx, acct.Credential, DataFileName, content, containerID); err != nil {
		return err
	}
	s.log.Info("backup restored", logger.String("name", name))
	return nil
}

func containsBackup(backups []Backup, name string) bool {
	for _, b := range backups {
		if b.Name == name {
			return true
		}
	}
	return false
}

// prune deletes the oldest backups so at most BackupRetention remain.
func (s *Store) prune(ctx context.Context, acct *Account, containerID string) error {
	keep := s.opts.BackupRetention
	if keep <= 0 {
		return nil
	}

	files, err := s.files.ListFiles(ctx, acct.Credential, containerID)
	if err != nil {
		return err
	}
	backups := backupsOf(files)
	if len(backups) <= keep {
		return nil
	}

	for _, b := range backups[keep:] {
		if err := s.files.DeleteFile(ctx, acct.Credential, b.Name, containerID); err != nil {
			return err
		}
		s.log.Debug("backup pruned", logger.String("name", b.Name))
	}
	return nil
}
