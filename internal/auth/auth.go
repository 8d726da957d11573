package auth

import (
	"bufio"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultMemory     = 64 * 1024
	defaultIterations = 3
	defaultThreads    = 1
	defaultSaltLength = 16
	defaultKeyLength  = 32
)

// Hash is a parsed argon2id password hash.
type Hash struct {
	m    uint32
	t    uint32
	p    uint8
	salt []byte
	sum  []byte
}

// HashPassword derives an argon2id hash of password and encodes it in the
// standard PHC string form.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	salt := make([]byte, defaultSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := argon2.IDKey([]byte(password), salt, defaultIterations, defaultMemory, defaultThreads, defaultKeyLength)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		defaultMemory,
		defaultIterations,
		defaultThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// ParseHash decodes a PHC-encoded argon2id hash.
func ParseHash(phc string) (*Hash, error) {
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, errors.New("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return nil, fmt.Errorf("unsupported argon2id version: %s", parts[2])
	}
	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return nil, errors.New("invalid argon2id params")
	}
	var m, t, p uint64
	for _, param := range params {
		kv := strings.SplitN(param, "=", 2)
		if len(kv) != 2 {
			return nil, errors.New("invalid argon2id params")
		}
		var err error
		switch kv[0] {
		case "m":
			m, err = strconv.ParseUint(kv[1], 10, 32)
		case "t":
			t, err = strconv.ParseUint(kv[1], 10, 32)
		case "p":
			p, err = strconv.ParseUint(kv[1], 10, 8)
		default:
			return nil, errors.New("invalid argon2id params")
		}
		if err != nil {
			return nil, fmt.Errorf("invalid argon2id parameter %s", kv[0])
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid argon2id salt")
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, errors.New("invalid argon2id hash")
	}
	return &Hash{
		m:    uint32(m),
		t:    uint32(t),
		p:    uint8(p),
		salt: salt,
		sum:  sum,
	}, nil
}

// Verify reports whether password matches the hash.
func (h *Hash) Verify(password string) bool {
	sum := argon2.IDKey([]byte(password), h.salt, h.t, h.m, h.p, uint32(len(h.sum)))
	return subtle.ConstantTimeCompare(sum, h.sum) == 1
}

// LoadFile reads a credentials file of "user:hash" lines. Blank lines and
// lines starting with '#' are skipped. A missing file yields an empty map.
func LoadFile(path string) (map[string]*Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Hash{}, nil
		}
		return nil, fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	users := make(map[string]*Hash)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid credentials line %d: expected user:hash", lineNum)
		}
		user := strings.TrimSpace(parts[0])
		hash := strings.TrimSpace(parts[1])
		if user == "" || hash == "" {
			return nil, fmt.Errorf("invalid credentials line %d: empty user or hash", lineNum)
		}
		if _, exists := users[user]; exists {
			return nil, fmt.Errorf("duplicate user %q in credentials file", user)
		}
		parsed, err := ParseHash(hash)
		if err != nil {
			return nil, fmt.Errorf("invalid credentials line %d: %w", lineNum, err)
		}
		users[user] = parsed
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	return users, nil
}

// Register adds user to the credentials file. It fails if the user
// already exists or the username contains ':'.
func Register(path, user, password string) error {
	if user == "" {
		return errors.New("username must not be empty")
	}
	if strings.Contains(user, ":") {
		return errors.New("username must not contain ':'")
	}

	users, err := LoadFile(path)
	if err != nil {
		return err
	}
	if _, exists := users[user]; exists {
		return fmt.Errorf("username already exists: %s", user)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return appendLine(path, fmt.Sprintf("%s:%s", user, hash))
}

// Login verifies user's password against the credentials file.
func Login(path, user, password string) error {
	users, err := LoadFile(path)
	if err != nil {
		return err
	}
	h, ok := users[user]
	if !ok || !h.Verify(password) {
		return errors.New("login failed")
	}
	return nil
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}
