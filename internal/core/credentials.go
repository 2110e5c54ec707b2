package core

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tailscale/hujson"
)

// CredentialOptions collects every source a credential may be resolved
// from. Precedence (highest first): credentials file, explicit user+secret,
// environment values captured in Config, on-disk base64 secret file,
// interactive prompt.
type CredentialOptions struct {
	CredentialsFile string // structured JSON file {userName, password}
	User            string // explicit --user
	Secret          string // explicit --secret
	EnvUser         string // ODSCTL_DB_USER, captured at config load
	EnvSecret       string // ODSCTL_DB_SECRET, captured at config load
	SecretFile      string // explicit base64 secret file override
	SecretsDir      string // directory holding <user>_pwd.b64 caches
	NoPrompt        bool   // turn the missing-secret case into a hard failure

	// Prompt reads a secret interactively. Nil behaves like NoPrompt.
	Prompt func(label string) (string, error)
}

// ResolveCredential produces exactly one (user, secret) pair from the
// layered sources, or fails. The returned credential has leaf scope;
// ForScope derives the root variant.
func ResolveCredential(opts CredentialOptions) (Credential, error) {
	if opts.CredentialsFile != "" {
		return readCredentialsFile(opts.CredentialsFile)
	}

	user := opts.User
	if user == "" {
		user = opts.EnvUser
	}
	if user == "" {
		return Credential{}, Validationf("user not specified")
	}

	secret, err := resolveSecret(user, opts)
	if err != nil {
		return Credential{}, err
	}
	return Credential{User: user, Secret: secret, Scope: ScopeLeaf}, nil
}

func resolveSecret(user string, opts CredentialOptions) (string, error) {
	if opts.Secret != "" {
		return NormalizeSecret(opts.Secret)
	}
	if opts.EnvSecret != "" {
		return NormalizeSecret(opts.EnvSecret)
	}

	// On-disk base64 cache, located by convention unless overridden.
	path := opts.SecretFile
	if path == "" && opts.SecretsDir != "" {
		path = filepath.Join(opts.SecretsDir, user+"_pwd.b64")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return decodeSecretFile(path, string(data))
		}
		if opts.SecretFile != "" {
			// An explicit file that cannot be read is an error; the
			// conventional cache path is allowed to be absent.
			return "", fmt.Errorf("reading secret file: %w", err)
		}
	}

	if opts.NoPrompt || opts.Prompt == nil {
		return "", Validationf("secret not specified and prompting disabled")
	}
	secret, err := opts.Prompt(fmt.Sprintf("Password for %s", user))
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	secret = strings.TrimRight(secret, "\r\n")
	if secret == "" {
		return "", Validationf("secret not specified")
	}
	return secret, nil
}

// NormalizeSecret strips trailing CR/LF and transparently decodes a secret
// that is valid base64 text. A secret that decodes to nothing is an error.
func NormalizeSecret(s string) (string, error) {
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return "", Validationf("secret not specified")
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s, nil // not base64, use as-is
	}
	if len(decoded) == 0 {
		return "", fmt.Errorf("decoded secret is empty")
	}
	if !utf8.Valid(decoded) {
		return s, nil // decodes to binary noise, treat input as literal
	}
	return strings.TrimRight(string(decoded), "\r\n"), nil
}

// decodeSecretFile decodes a <user>_pwd.b64 cache. Unlike NormalizeSecret,
// the file is base64 by definition, so a decode failure is an error.
func decodeSecretFile(path, content string) (string, error) {
	content = strings.TrimSpace(content)
	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("decoding secret file %s: %w", path, err)
	}
	if len(decoded) == 0 {
		return "", fmt.Errorf("decoded secret is empty")
	}
	return strings.TrimRight(string(decoded), "\r\n"), nil
}

// readCredentialsFile parses a structured credential file. JSONC is
// tolerated. Missing fields are a format error.
func readCredentialsFile(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, fmt.Errorf("reading credentials file: %w", err)
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Credential{}, Validationf("invalid credentials file format")
	}
	var payload CredentialPayload
	if err := json.Unmarshal(standardized, &payload); err != nil {
		return Credential{}, Validationf("invalid credentials file format")
	}
	if payload.UserName == "" || payload.Password == "" {
		return Credential{}, Validationf("invalid credentials file format")
	}
	secret, err := NormalizeSecret(payload.Password)
	if err != nil {
		return Credential{}, err
	}
	return Credential{User: payload.UserName, Secret: secret, Scope: ScopeLeaf}, nil
}

// IsRootTarget reports whether a target takes the container-level common
// user: either its name carries the root suffix (case-insensitive) or the
// caller forced root scope.
func IsRootTarget(displayName, rootSuffix string, forced bool) bool {
	if forced {
		return true
	}
	if rootSuffix == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(displayName), strings.ToLower(rootSuffix))
}

// ForScope derives the credential for a scope. Root scope prefixes the
// user with the common-user prefix unless already prefixed; the secret is
// reused unless rootSecret supplies a per-scope value.
func (c Credential) ForScope(scope CredentialScope, commonPrefix, rootSecret string) Credential {
	out := c
	out.Scope = scope
	if scope == ScopeRoot {
		if commonPrefix != "" && !strings.HasPrefix(strings.ToUpper(c.User), strings.ToUpper(commonPrefix)) {
			out.User = commonPrefix + c.User
		}
		if rootSecret != "" {
			out.Secret = rootSecret
		}
	}
	return out
}

// WriteTransient writes the credential payload to a 0600 temp file for
// downstream file-reference use and registers it with the janitor so it is
// scrubbed on every exit path. The returned cleanup removes the file and
// unregisters it.
func WriteTransient(cred Credential, janitor *Janitor) (string, func(), error) {
	f, err := os.CreateTemp("", "odsctl-cred-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("creating credential file: %w", err)
	}
	path := f.Name()
	janitor.Register(path)
	cleanup := func() {
		_ = os.Remove(path)
		janitor.Unregister(path)
	}

	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("restricting credential file mode: %w", err)
	}
	payload := CredentialPayload{UserName: cred.User, Password: cred.Secret}
	if err := json.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing credential file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing credential file: %w", err)
	}
	return path, cleanup, nil
}

// SaveSecretCache writes <user>_pwd.b64 into dir with owner-only mode and
// returns its path.
func SaveSecretCache(dir, user, secret string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating secrets directory: %w", err)
	}
	path := filepath.Join(dir, user+"_pwd.b64")
	encoded := base64.StdEncoding.EncodeToString([]byte(secret))
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing secret cache: %w", err)
	}
	return path, nil
}
