// Package dzkp implements the distributed zero-knowledge proof of
// https://eprint.iacr.org/2023/909, which lets two verifiers check that a prover's
// secret vectors u and v satisfy Σ uᵢ⋅vᵢ = 0, while each verifier only ever sees one of the
// vectors and an additive share of every proof.
//
// The vectors are split into chunks of λ elements, and each chunk is interpreted as the values of
// a polynomial of degree λ-1 at the canonical points 0, …, λ-1. In every round the prover sends the
// 2λ-1 values of Σₖ pₖ⋅qₖ, and the verifiers
//
//   - check that the first λ values sum to the claimed output,
//   - replace every chunk by its value at a random challenge r,
//   - take g(r) as the claimed output of the next round.
//
// Once at most FinalBlockSize values remain, the prover masks both polynomials with a random value
// at position 0 and sends the 2λ+1 values of p⋅q, which the verifiers check by opening p(r) and q(r).
package dzkp
