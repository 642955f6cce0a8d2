package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// DigestLengthBytes is the default output length of hash.Hash.
	DigestLengthBytes = 2 * SecBytes // = 64

	// ChallengeBytes is the number of bytes read from the transcript when deriving a field challenge.
	// Reading more bytes than the field size keeps the modular bias below 2⁻¹²⁸.
	ChallengeBytes = 24
)
