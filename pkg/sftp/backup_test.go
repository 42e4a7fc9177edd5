package sftp

import (
	"errors"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	files     map[string][]byte
	uploadErr error
}

func (f *fakeRemote) Upload(remotePath string, payload []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.files[remotePath] = payload
	return nil
}

func (f *fakeRemote) Walk(root, regex string, cb func(string)) error {
	re := regexp.MustCompile(regex)
	var paths []string
	for p := range f.files {
		if re.MatchString(p) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	for _, p := range paths {
		cb(p)
	}
	return nil
}

func (f *fakeRemote) Remove(path string) error {
	delete(f.files, path)
	return nil
}

func TestBackupName(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 15, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "tcg-products-20260314T091500Z.json.gz", BackupName(at))
	assert.Regexp(t, backupPattern, BackupName(at))
}

func TestBackupRotation(t *testing.T) {
	remote := &fakeRemote{files: map[string][]byte{
		"/backups/notes.txt": []byte("keep me"),
	}}
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	var last string
	for i := 0; i < 5; i++ {
		target, err := Backup(remote, "/backups", []byte{byte(i)}, start.Add(time.Duration(i)*time.Hour), 3)
		require.NoError(t, err)
		last = target
	}

	assert.Equal(t, "/backups/tcg-products-20260314T140000Z.json.gz", last)
	assert.Len(t, remote.files, 4)
	assert.Contains(t, remote.files, "/backups/notes.txt")
	assert.NotContains(t, remote.files, "/backups/tcg-products-20260314T100000Z.json.gz")
	assert.Contains(t, remote.files, "/backups/tcg-products-20260314T120000Z.json.gz")
}

func TestBackupKeepAll(t *testing.T) {
	remote := &fakeRemote{files: map[string][]byte{}}
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := Backup(remote, "backups", nil, start.Add(time.Duration(i)*time.Minute), 0)
		require.NoError(t, err)
	}
	assert.Len(t, remote.files, 4)
}

func TestBackupUploadError(t *testing.T) {
	remote := &fakeRemote{files: map[string][]byte{}, uploadErr: errors.New("permission denied")}
	_, err := Backup(remote, "/backups", nil, time.Now(), 3)
	assert.Error(t, err)
}
