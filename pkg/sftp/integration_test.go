//go:build integration

package sftp

import (
	"os"
	"strconv"
	"testing"
	"time"
)

func TestSFTP(t *testing.T) {
	host := os.Getenv("SFTP_HOST")
	if host == "" {
		t.Skip("SFTP_HOST not set")
	}

	port, err := strconv.Atoi(os.Getenv("SFTP_PORT"))
	if err != nil {
		t.Fatalf("Var not found -%v", err)
	}
	sess, err := NewSession(host, os.Getenv("SFTP_USER"), os.Getenv("SFTP_PASS"), port)
	if err != nil {
		t.Fatalf("Connect to SFTP -%v", err)
	}
	defer sess.Close()

	target, err := Backup(sess, "tcgshelf-test", []byte("payload"), time.Now(), 1)
	if err != nil {
		t.Fatalf("Backup -%v", err)
	}
	if err := sess.Remove(target); err != nil {
		t.Fatalf("Remove -%v", err)
	}
}
