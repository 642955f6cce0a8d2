// Command dzkp-sim runs the three helpers in-process: they set up their PRSS seeds, multiply
// secret-shared inputs, and prove the multiplications to each other.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markkurossi/tabulate"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

func main() {
	n := flag.Int("n", 1000, "Number of multiplications")
	fieldName := flag.String("field", field.Fp61BitPrime.Name(),
		fmt.Sprintf("Prime field (%s)", strings.Join(field.Names(), ", ")))
	sessions := flag.Int("sessions", 1, "Number of multiplication sessions proven together")
	block := flag.Int("block", 8, "Block size of the intermediate proofs")
	final := flag.Int("final", 4, "Block size of the final proof")
	cheat := flag.String("cheat", "", "Helper (H1, H2 or H3) adding an error to its first product")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	f, err := field.ByName(*fieldName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid field")
	}
	sim := &Simulation{
		Config:          dzkp.Config{Field: f, BlockSize: *block, FinalBlockSize: *final},
		Multiplications: *n,
		Sessions:        *sessions,
		Log:             log,
	}
	if *cheat != "" {
		role, err := parseRole(*cheat)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid cheater")
		}
		sim.Cheater = &role
	}

	reports, err := sim.Run(party.IDSlice{"h1", "h2", "h3"})
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	printReports(os.Stdout, reports)

	for _, r := range reports {
		if r.Err != nil {
			os.Exit(1)
		}
	}
}

func parseRole(s string) (party.Role, error) {
	for _, role := range []party.Role{party.H1, party.H2, party.H3} {
		if strings.EqualFold(s, role.String()) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown helper %q", s)
}

// printReports prints one row per helper.
func printReports(w io.Writer, reports []*Report) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Helper").SetAlign(tabulate.ML)
	tab.Header("ID").SetAlign(tabulate.ML)
	tab.Header("Rounds").SetAlign(tabulate.MR)
	for _, phase := range phases {
		tab.Header(phase).SetAlign(tabulate.MR)
	}
	tab.Header("Sent").SetAlign(tabulate.MR)
	tab.Header("Result").SetAlign(tabulate.ML)

	for _, r := range reports {
		row := tab.Row()
		row.Column(r.Role.String())
		row.Column(string(r.ID))
		row.Column(fmt.Sprintf("%d", r.Rounds))
		for i := range phases {
			if i < len(r.Timings) {
				row.Column(r.Timings[i].String())
			} else {
				row.Column("")
			}
		}
		row.Column(fmt.Sprintf("%d msgs, %d B", r.Sent.Messages, r.Sent.Bytes))
		switch culprits := r.Culprits(); {
		case r.Err == nil:
			row.Column(fmt.Sprintf("verified %v", r.Verified))
		case len(culprits) > 0:
			row.Column(fmt.Sprintf("rejected %v", culprits)).SetFormat(tabulate.FmtBold)
		default:
			row.Column(r.Err.Error()).SetFormat(tabulate.FmtBold)
		}
	}
	tab.Print(w)
}
