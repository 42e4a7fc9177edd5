package sftp

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"regexp"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

var (
	SIZE = 1 << 15
)

// SFTP contains the ssh connection and the sftp client object
type SFTP struct {
	isOpen     bool
	agentConn  net.Conn
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// NewSession initializes an SFTP session object. Keys from a running
// ssh-agent are tried before the password.
func NewSession(host, user, password string, port int) (*SFTP, error) {
	var session SFTP
	var err error

	var auths []ssh.AuthMethod
	if aconn, err := net.Dial("unix", os.Getenv("SSH_AUTH_SOCK")); err == nil {
		session.agentConn = aconn
		auths = append(auths, ssh.PublicKeysCallback(agent.NewClient(aconn).Signers))
	}
	if password != "" {
		auths = append(auths, ssh.Password(password))
	}

	config := ssh.ClientConfig{
		User:            user,
		Auth:            auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	session.sshClient, err = ssh.Dial("tcp", addr, &config)
	if err != nil {
		session.closeAgent()
		return &session, fmt.Errorf("SFTP dial %s - %w", addr, err)
	}

	session.sftpClient, err = sftp.NewClient(session.sshClient, sftp.MaxPacket(SIZE))
	if err != nil {
		session.sshClient.Close()
		session.closeAgent()
		return &session, fmt.Errorf("SFTP client - %w", err)
	}

	session.isOpen = true

	return &session, nil
}

// Upload writes payload to remotePath, creating missing directories
func (s *SFTP) Upload(remotePath string, payload []byte) error {
	if !s.isOpen {
		return fmt.Errorf("Failed to upload %s - Session not initialized", remotePath)
	}

	err := s.sftpClient.MkdirAll(path.Dir(remotePath))
	if err != nil {
		return fmt.Errorf("Upload %s - %w", remotePath, err)
	}

	f, err := s.sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("Upload %s - %w", remotePath, err)
	}
	return writeAndClose(f, remotePath, payload)
}

// Walk traverses a directory tree starting from the specified directory
// and applies a callback function to entries that match a regex selector
func (s *SFTP) Walk(root, regex string, cb func(string)) error {
	if !s.isOpen {
		return fmt.Errorf("Failed to walk %s - Session not initialized", root)
	}
	selector, err := regexp.Compile(regex)
	if err != nil {
		return fmt.Errorf("Failed to walk %s - %w", root, err)
	}

	w := s.sftpClient.Walk(root)
	for w.Step() {
		if w.Err() != nil {
			continue
		}
		if !selector.MatchString(w.Path()) {
			continue
		}
		cb(w.Path())
	}

	return nil
}

// Remove removes the object specified in path
func (s *SFTP) Remove(path string) error {
	return s.sftpClient.Remove(path)
}

// Close closes the ssh and sftp connections
func (s *SFTP) Close() {
	if !s.isOpen {
		return
	}
	s.sftpClient.Close()
	s.sshClient.Close()
	s.closeAgent()

	s.isOpen = false
}

func (s *SFTP) closeAgent() {
	if s.agentConn != nil {
		s.agentConn.Close()
		s.agentConn = nil
	}
}

// writeAndClose writes payload and reports a failed close as a failed upload
func writeAndClose(f io.WriteCloser, remotePath string, payload []byte) error {
	_, err := f.Write(payload)
	if err != nil {
		f.Close()
		return fmt.Errorf("Upload %s - %w", remotePath, err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("Upload %s - close: %w", remotePath, err)
	}
	return nil
}
