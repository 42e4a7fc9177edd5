package sftp

import (
	"fmt"
	"path"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

const backupLayout = "20060102T150405Z"

// backupPattern matches the names produced by BackupName
const backupPattern = `tcg-products-\d{8}T\d{6}Z\.json\.gz$`

// Remote is the part of a session that backups need
type Remote interface {
	Upload(remotePath string, payload []byte) error
	Walk(root, regex string, cb func(string)) error
	Remove(path string) error
}

// BackupName names a snapshot taken at t
func BackupName(t time.Time) string {
	return fmt.Sprintf("tcg-products-%s.json.gz", t.UTC().Format(backupLayout))
}

// Backup uploads a compressed snapshot into dir and removes all but the
// newest keep backups. keep <= 0 keeps everything.
func Backup(r Remote, dir string, payload []byte, now time.Time, keep int) (string, error) {
	target := path.Join(dir, BackupName(now))
	err := r.Upload(target, payload)
	if err != nil {
		return "", err
	}

	if keep <= 0 {
		return target, nil
	}

	var existing []string
	err = r.Walk(dir, backupPattern, func(p string) {
		existing = append(existing, p)
	})
	if err != nil {
		return target, fmt.Errorf("Rotate backups - %w", err)
	}

	// timestamps sort lexically
	sort.Strings(existing)
	for len(existing) > keep {
		old := existing[0]
		existing = existing[1:]
		err = r.Remove(old)
		if err != nil {
			log.WithFields(log.Fields{
				"path": old,
				"err":  err,
			}).Warningln("Failed to remove old backup")
			continue
		}
		log.WithField("path", old).Infoln("Removed old backup")
	}

	return target, nil
}
