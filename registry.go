package watermark

import (
	"context"
	"errors"
	"time"

	"github.com/pixelclaim/watermark/internal/phash"
)

// AssetRecord is the persisted registry record: read here, but written by
// a collaborator outside this package's scope.
type AssetRecord struct {
	AssetID   string
	IPAssetID string
	WalletID  string
	PublicURL string
	DigestHex string
	PhashHex  string
}

// PhashCandidate pairs an AssetRecord with its similarity to a queried
// pHash, as returned by Registry.LookupByPhash.
type PhashCandidate struct {
	Asset             AssetRecord
	SimilarityPercent float64
}

// Registry is the external collaborator contract this codec relies on:
// two read-only lookups the verification driver consumes. Implementations
// live outside this module (an HTTP client, a database query, a mock).
type Registry interface {
	LookupByDigest(ctx context.Context, digestHex string) (*AssetRecord, error)
	LookupByPhash(ctx context.Context, phashHex string) ([]PhashCandidate, error)
}

// ErrNoMatch is returned by a Registry implementation's lookups to signal a
// clean miss (not a transport failure). VerifyOne treats a digest miss as a
// cue to try the pHash lookup, and a pHash miss as an unverified Verdict.
var ErrNoMatch = errors.New("registry: no match")

// MatchType distinguishes how a Verdict was reached.
type MatchType int

const (
	MatchNone MatchType = iota
	MatchHash
	MatchPhash
)

func (m MatchType) String() string {
	switch m {
	case MatchHash:
		return "hash"
	case MatchPhash:
		return "phash"
	default:
		return "unverified"
	}
}

// Verdict is the per-image verification outcome: a hash match, a pHash
// match with its similarity percentage, or unverified with a reason.
type Verdict struct {
	Match             MatchType
	Asset             *AssetRecord
	SimilarityPercent float64
	Reason            string // populated when Match == MatchNone
}

// RegistryLookupTimeout bounds how long a single registry lookup may take.
const RegistryLookupTimeout = 30 * time.Second

// VerifyOne recovers the digest embedded in imageBytes and resolves a
// Verdict against reg: a successful extract tries LookupByDigest first;
// only on a miss, or when extraction fails outright (EccUncorrectable),
// does it fall back to LookupByPhash.
func VerifyOne(ctx context.Context, reg Registry, imageBytes []byte, p Params) Verdict {
	res, err := Extract(imageBytes, p)
	if err != nil {
		var ce *CodecError
		if errors.As(err, &ce) && ce.Kind == ErrEccUncorrectable {
			hash, hashErr := ComputePhash(imageBytes)
			if hashErr != nil {
				return Verdict{Match: MatchNone, Reason: hashErr.Error()}
			}
			return verifyByPhash(ctx, reg, hash)
		}
		return Verdict{Match: MatchNone, Reason: err.Error()}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, RegistryLookupTimeout)
	defer cancel()
	asset, err := reg.LookupByDigest(lookupCtx, res.DigestHex)
	if err == nil && asset != nil {
		return Verdict{Match: MatchHash, Asset: asset, SimilarityPercent: 100}
	}
	if err != nil && !errors.Is(err, ErrNoMatch) {
		return Verdict{Match: MatchNone, Reason: "registry error: " + err.Error()}
	}

	return verifyByPhash(ctx, reg, res.PerceptualHash)
}

func verifyByPhash(ctx context.Context, reg Registry, hash phash.Hash) Verdict {
	lookupCtx, cancel := context.WithTimeout(ctx, RegistryLookupTimeout)
	defer cancel()
	candidates, err := reg.LookupByPhash(lookupCtx, hash.String())
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return Verdict{Match: MatchNone, Reason: "no pHash match"}
		}
		return Verdict{Match: MatchNone, Reason: "registry error: " + err.Error()}
	}

	best, bestIdx := -1.0, -1
	for i, c := range candidates {
		if c.SimilarityPercent > 85 && c.SimilarityPercent > best {
			best = c.SimilarityPercent
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Verdict{Match: MatchNone, Reason: "no pHash candidate above match threshold"}
	}
	return Verdict{
		Match:             MatchPhash,
		Asset:             &candidates[bestIdx].Asset,
		SimilarityPercent: candidates[bestIdx].SimilarityPercent,
	}
}
