// Package chainspec turns network parameters into a chain specification: the
// JSON document a node reads on first start, carrying the network's name and
// type, display properties and the runtime genesis state.
package chainspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/octopus-appchains/debio-node/crypto/derive"
	"github.com/octopus-appchains/debio-node/genesis"
	"github.com/octopus-appchains/debio-node/genesis/authority"
	"github.com/octopus-appchains/debio-node/inter/account"
)

// ErrUnknownWeightSeed is returned when a weight override names a seed that
// is not an authority.
var ErrUnknownWeightSeed = errors.New("weight override for a seed that is not an authority")

// Properties is display metadata for wallets and explorers.
type Properties struct {
	TokenSymbol   string `json:"tokenSymbol"`
	TokenDecimals int    `json:"tokenDecimals"`
}

// DefaultProperties returns the DBIO token metadata.
func DefaultProperties() Properties {
	return Properties{TokenSymbol: genesis.TokenSymbol, TokenDecimals: genesis.TokenDecimals}
}

// Telemetry is a telemetry endpoint with its verbosity.
type Telemetry struct {
	URL       string
	Verbosity uint8
}

func (t Telemetry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{t.URL, t.Verbosity})
}

// Genesis wraps the runtime state the way nodes expect it.
type Genesis struct {
	Runtime *genesis.State `json:"runtime"`
}

// ChainSpec is the serialized chain specification.
type ChainSpec struct {
	Name               string            `json:"name"`
	ID                 string            `json:"id"`
	ChainType          ChainType         `json:"chainType"`
	BootNodes          []string          `json:"bootNodes"`
	TelemetryEndpoints []Telemetry       `json:"telemetryEndpoints"`
	ProtocolID         *string           `json:"protocolId"`
	Properties         Properties        `json:"properties"`
	ConsensusEngine    *string           `json:"consensusEngine"`
	CodeSubstitutes    map[string]string `json:"codeSubstitutes"`
	Genesis            Genesis           `json:"genesis"`
}

// Options tune a build without changing its network parameters.
type Options struct {
	Deriver *derive.Deriver
	Rand    *rand.Rand
	Log     logrus.FieldLogger
}

// Build resolves params and assembles the chain specification around code.
func Build(params Params, code []byte, opts Options) (*ChainSpec, error) {
	if opts.Deriver == nil {
		opts.Deriver = derive.Default()
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	log := opts.Log.WithField("chain", params.ID)

	known := make(map[string]bool, len(params.Authorities))
	for _, seed := range params.Authorities {
		known[seed] = true
	}
	var (
		weights []authority.Option
		unknown []string
	)
	for seed, w := range params.Weights {
		if !known[seed] {
			unknown = append(unknown, seed)
			continue
		}
		weights = append(weights, authority.WithWeight(seed, new(big.Int).SetUint64(w)))
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownWeightSeed, strings.Join(unknown, ", "))
	}
	auths, err := authority.NewBuilder(opts.Deriver, weights...).FromSeeds(params.Authorities)
	if err != nil {
		return nil, err
	}

	r := resolver{d: opts.Deriver}
	nominators := r.list("nominators", params.Nominators)
	endowed := r.list("endowed", params.Endowed)
	root := r.one("root_key", params.RootKey)
	escrow := r.one("escrow_key", params.EscrowKey)
	if r.err != nil {
		return nil, r.err
	}

	b := genesis.NewBuilder().
		WithRuntime(code).
		WithAuthorities(auths).
		WithNominators(nominators).
		WithDeriver(opts.Deriver).
		WithRand(opts.Rand).
		WithLogger(log)
	if params.Endowed != nil {
		b.WithEndowed(endowed)
	}
	if params.RootKey != "" {
		b.WithRootKey(root)
	}
	if params.EscrowKey != "" {
		b.WithEscrowKey(escrow)
	}
	var assets []genesis.Asset
	if params.Assets != nil {
		assets = make([]genesis.Asset, len(params.Assets))
		for i, a := range params.Assets {
			assets[i] = genesis.Asset{Name: a.Name, ID: a.ID}
		}
	}
	b.WithAppchain(params.AppchainID, assets)

	state, err := b.Build()
	if err != nil {
		return nil, err
	}

	spec := &ChainSpec{
		Name:            params.Name,
		ID:              params.ID,
		ChainType:       params.ChainType,
		BootNodes:       append(make([]string, 0, len(params.BootNodes)), params.BootNodes...),
		Properties:      DefaultProperties(),
		CodeSubstitutes: map[string]string{},
		Genesis:         Genesis{Runtime: state},
	}
	for _, url := range params.TelemetryEndpoints {
		spec.TelemetryEndpoints = append(spec.TelemetryEndpoints, Telemetry{URL: url})
	}
	if params.ProtocolID != "" {
		id := params.ProtocolID
		spec.ProtocolID = &id
	}
	if spec.ChainType == "" {
		spec.ChainType = Live
	}
	return spec, nil
}

// resolver turns account references into identities, keeping the first error.
type resolver struct {
	d   *derive.Deriver
	err error
}

func (r *resolver) one(field, ref string) account.ID {
	if r.err != nil || ref == "" {
		return account.ID{}
	}
	id, err := ResolveAccount(r.d, ref)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", field, err)
	}
	return id
}

func (r *resolver) list(field string, refs []string) []account.ID {
	out := make([]account.ID, 0, len(refs))
	for i, ref := range refs {
		out = append(out, r.one(fmt.Sprintf("%s[%d]", field, i), ref))
	}
	return out
}

// ResolveAccount parses an account reference: a secret URI starting with "/"
// is derived with d, anything else must be a hex or SS58 literal.
func ResolveAccount(d *derive.Deriver, ref string) (account.ID, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "/") {
		return d.AccountFromURI(ref)
	}
	return account.Parse(ref)
}

// WriteJSON writes the specification as indented JSON.
func (s *ChainSpec) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteFile writes the specification to path. The file is replaced
// atomically, so a failed write never leaves a partial specification behind.
func (s *ChainSpec) WriteFile(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = s.WriteJSON(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
