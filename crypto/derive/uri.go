package derive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/octopus-appchains/debio-node/utils/fast"
	"github.com/octopus-appchains/debio-node/utils/scale"
)

// ChainCodeSize is the length of a junction chain code.
const ChainCodeSize = 32

var (
	ErrEmptyJunction = errors.New("empty derivation junction")
	ErrSoftJunction  = errors.New("soft derivation is not supported")
)

// Junction is one step of a derivation path.
type Junction struct {
	Name      string
	Hard      bool
	ChainCode [ChainCodeSize]byte
}

// NewJunction computes the chain code of a path element. Numeric names are
// encoded as little-endian u64, anything else as a SCALE string; encodings
// longer than a chain code are hashed with blake2b-256.
func NewJunction(name string, hard bool) Junction {
	w := fast.NewWriter(make([]byte, 0, len(name)+5))
	if n, err := strconv.ParseUint(name, 10, 64); err == nil {
		w.U64(n)
	} else {
		scale.WriteString(w, name)
	}

	j := Junction{Name: name, Hard: hard}
	if code := w.Bytes(); len(code) > ChainCodeSize {
		j.ChainCode = blake2b.Sum256(code)
	} else {
		copy(j.ChainCode[:], code)
	}
	return j
}

// String renders the junction with its separator.
func (j Junction) String() string {
	if j.Hard {
		return "//" + j.Name
	}
	return "/" + j.Name
}

// URI is a parsed secret URI: `<phrase>[//hard|/soft]*[///password]`.
type URI struct {
	Phrase   string
	Path     []Junction
	Password string

	// HasPassword distinguishes an empty password from none.
	HasPassword bool
}

// ParseURI splits a secret URI into its phrase, junctions and password.
func ParseURI(suri string) (URI, error) {
	var u URI

	rest := suri
	if i := strings.Index(rest, "///"); i >= 0 {
		u.Password = rest[i+3:]
		u.HasPassword = true
		rest = rest[:i]
	}

	if i := strings.Index(rest, "/"); i >= 0 {
		u.Phrase = strings.TrimSpace(rest[:i])
		rest = rest[i:]
	} else {
		u.Phrase = strings.TrimSpace(rest)
		rest = ""
	}

	for rest != "" {
		hard := strings.HasPrefix(rest, "//")
		if hard {
			rest = rest[2:]
		} else {
			rest = rest[1:]
		}
		name := rest
		if i := strings.Index(rest, "/"); i >= 0 {
			name = rest[:i]
		}
		if name == "" {
			return URI{}, fmt.Errorf("%w in %q", ErrEmptyJunction, suri)
		}
		rest = rest[len(name):]
		u.Path = append(u.Path, NewJunction(name, hard))
	}
	return u, nil
}

// String reassembles the URI, hiding the password.
func (u URI) String() string {
	var sb strings.Builder
	sb.WriteString(u.Phrase)
	for _, j := range u.Path {
		sb.WriteString(j.String())
	}
	if u.HasPassword {
		sb.WriteString("///***")
	}
	return sb.String()
}
