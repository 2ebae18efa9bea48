package indexio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biocore/esa/esaerr"
)

// Header is the parsed form of base.prj: spec.md §6's text, one
// key\tvalue pair per line, plus one inputfile line per input.
type Header struct {
	ReverseComplement   bool
	NonspecialSuffixes  int64
	SequencesNumber     int
	SequencesNumberBits int
	SequencesLengthBits int
	SizeofSuftabEntry   int
	InputFiles          []string
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// writePrj serializes h to w in spec.md §6's key<TAB>value line format.
func writePrj(w *bufio.Writer, h Header) error {
	lines := []string{
		fmt.Sprintf("reverse_complement\t%s", boolStr(h.ReverseComplement)),
		fmt.Sprintf("nonspecial_suffixes\t%d", h.NonspecialSuffixes),
		fmt.Sprintf("sequences_number\t%d", h.SequencesNumber),
		fmt.Sprintf("sequences_number_bits\t%d", h.SequencesNumberBits),
		fmt.Sprintf("sequences_length_bits\t%d", h.SequencesLengthBits),
		fmt.Sprintf("sizeof_suftab_entry\t%d", h.SizeofSuftabEntry),
	}
	for _, in := range h.InputFiles {
		lines = append(lines, fmt.Sprintf("inputfile\t%s", in))
	}
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// readPrj parses base.prj's key<TAB>value lines back into a Header.
func readPrj(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, esaerr.Wrap(esaerr.InputIo, err, "indexio: opening %s", path)
	}
	defer f.Close()

	var h Header
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "\t")
		if !ok {
			return Header{}, esaerr.New(esaerr.InputFormat, "indexio: malformed .prj line %q", line)
		}
		if err := assignPrjField(&h, key, value); err != nil {
			return Header{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Header{}, esaerr.Wrap(esaerr.InputIo, err, "indexio: reading %s", path)
	}
	return h, nil
}

func assignPrjField(h *Header, key, value string) error {
	switch key {
	case "reverse_complement":
		h.ReverseComplement = value == "1"
	case "nonspecial_suffixes":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return esaerr.Wrap(esaerr.InputFormat, err, "indexio: nonspecial_suffixes")
		}
		h.NonspecialSuffixes = v
	case "sequences_number":
		v, err := strconv.Atoi(value)
		if err != nil {
			return esaerr.Wrap(esaerr.InputFormat, err, "indexio: sequences_number")
		}
		h.SequencesNumber = v
	case "sequences_number_bits":
		v, err := strconv.Atoi(value)
		if err != nil {
			return esaerr.Wrap(esaerr.InputFormat, err, "indexio: sequences_number_bits")
		}
		h.SequencesNumberBits = v
	case "sequences_length_bits":
		v, err := strconv.Atoi(value)
		if err != nil {
			return esaerr.Wrap(esaerr.InputFormat, err, "indexio: sequences_length_bits")
		}
		h.SequencesLengthBits = v
	case "sizeof_suftab_entry":
		v, err := strconv.Atoi(value)
		if err != nil {
			return esaerr.Wrap(esaerr.InputFormat, err, "indexio: sizeof_suftab_entry")
		}
		h.SizeofSuftabEntry = v
	case "inputfile":
		h.InputFiles = append(h.InputFiles, value)
	default:
		// Unknown keys are forward-compatible no-ops, matching the
		// original's line-oriented, order-independent .prj convention.
	}
	return nil
}
