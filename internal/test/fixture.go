package test

import (
	"io"

	"github.com/taurusgroup/ipa-dzkp/internal/types"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
)

// Endpoints creates PRSS endpoints for the ring of ids, as the setup protocol would.
func Endpoints(ring party.Ring, source io.Reader) map[party.ID]*prss.Endpoint {
	var seeds [party.Helpers]types.RID
	for i := range seeds {
		rid, err := types.NewRID(source)
		if err != nil {
			panic(err)
		}
		seeds[i] = rid
	}
	out := make(map[party.ID]*prss.Endpoint, party.Helpers)
	for i := range seeds {
		role := party.Role(i)
		// seeds[i] is shared by role and its right neighbour
		e, err := prss.NewEndpoint(seeds[role.Left()], seeds[role])
		if err != nil {
			panic(err)
		}
		out[ring.ID(role)] = e
	}
	return out
}

// Share shares every value of xs among the helpers of the ring.
func Share(ring party.Ring, f field.Field, xs []field.Element, source io.Reader) map[party.ID][]secret.Replicated {
	shares := secret.ShareAll(f, xs, source)
	out := make(map[party.ID][]secret.Replicated, party.Helpers)
	for i := range shares {
		out[ring.ID(party.Role(i))] = shares[i]
	}
	return out
}

// Reconstruct opens replicated shares held by the helpers of the ring.
func Reconstruct(ring party.Ring, shares map[party.ID][]secret.Replicated) ([]field.Element, error) {
	var byRole [party.Helpers][]secret.Replicated
	for i := range byRole {
		byRole[i] = shares[ring.ID(party.Role(i))]
	}
	return secret.ReconstructAll(byRole)
}
