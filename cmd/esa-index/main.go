/*Command esa-index builds an enhanced suffix array index from one or more
FASTA/FASTQ input files and writes it to base.prj/.tis/.suf/.bsf/.lcp/
.ll2/.ll4 under -out/-base, per spec.md §6's on-disk layout.

Usage:

	esa-index -out indices -base mygenome genome.fasta
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/biocore/esa/alphabet"
	"github.com/biocore/esa/encoding/seqio"
	"github.com/biocore/esa/indexio"
	"github.com/biocore/esa/lcp"
	"github.com/biocore/esa/multiseq"
	"github.com/biocore/esa/sais"
	"github.com/biocore/esa/suftabview"
)

var (
	outDir      = flag.String("out", ".", "directory to write the index into")
	base        = flag.String("base", "index", "basename for the index's files (base.prj, base.tis, ...)")
	reverseComp = flag.Bool("rev-comp", false, "append each input sequence's reverse complement (DNA only)")
	useSuccinct = flag.Bool("succinct", false, "also write base.lls, the succinct PLCP alternative to base.lcp/.ll2/.ll4")
	compressBsf = flag.Bool("compress-bsf", false, "snappy-compress base.bsf")
	usePLCP     = flag.Bool("plcp", false, "build the LCP table via PLCP-5n instead of Kasai-13n")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: esa-index [flags] input.fasta [input2.fasta ...]\n")
	flag.PrintDefaults()
}

func main() {
	shutdown := grail.Init()
	defer shutdown()
	flag.Usage = usage
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	records, alpha := readInputs(ctx, inputs)

	m, err := multiseq.Build(alpha, records, multiseq.Options{AppendReverseComplement: *reverseComp})
	if err != nil {
		log.Panicf("esa-index: building multi-sequence container: %v", err)
	}
	log.Printf("esa-index: %s", m.Statistics())

	sa, err := sais.BuildMultiSeq(m)
	if err != nil {
		log.Panicf("esa-index: building suffix array: %v", err)
	}

	var lcpTable *lcp.Table
	if *usePLCP {
		lcpTable, err = lcp.BuildPLCP5n(sa, m.Concat())
	} else {
		lcpTable, err = lcp.BuildKasai13n(sa, m.Concat())
	}
	if err != nil {
		log.Panicf("esa-index: building LCP table: %v", err)
	}

	view, err := suftabview.Build(sa, m)
	if err != nil {
		log.Panicf("esa-index: building packed suftab view: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Panicf("esa-index: creating %s: %v", *outDir, err)
	}

	w := indexio.NewWriter(*outDir, *base, indexio.Options{Compress: *compressBsf})
	if err := w.WriteTis(m.Concat()); err != nil {
		log.Panicf("esa-index: writing .tis: %v", err)
	}
	if err := w.WriteSuf(sa); err != nil {
		log.Panicf("esa-index: writing .suf: %v", err)
	}
	if err := w.WriteBsf(view); err != nil {
		log.Panicf("esa-index: writing .bsf: %v", err)
	}
	if err := w.WriteLCP(lcpTable); err != nil {
		log.Panicf("esa-index: writing .lcp/.ll2/.ll4: %v", err)
	}
	if *useSuccinct {
		plcp := lcp.ComputePLCP(sa, m.Concat())
		if err := w.WriteSuccinct(lcp.BuildSuccinct(plcp)); err != nil {
			log.Panicf("esa-index: writing .lls: %v", err)
		}
	}

	header := indexio.Header{
		ReverseComplement:   *reverseComp,
		NonspecialSuffixes:  int64(m.TotalLength()),
		SequencesNumber:     m.SeqCount(),
		SequencesNumberBits: m.BNum(),
		SequencesLengthBits: m.BLen(),
		SizeofSuftabEntry:   sais.WidthFor(sa.Len()),
		InputFiles:          inputs,
	}
	if err := w.Commit(header); err != nil {
		log.Panicf("esa-index: committing .prj: %v", err)
	}
	log.Printf("esa-index: wrote %s/%s.prj", *outDir, *base)
}

// readInputs streams every record from every input file in order and
// sniffs the alphabet from the first record, per spec.md §6's
// "scan at most 1000 bytes" auto-detection (alphabet.Sniff).
func readInputs(ctx context.Context, paths []string) ([]multiseq.Record, *alphabet.Alphabet) {
	var records []multiseq.Record
	var alpha *alphabet.Alphabet
	for _, path := range paths {
		r, err := seqio.Open(ctx, path)
		if err != nil {
			log.Panicf("esa-index: opening %s: %v", path, err)
		}
		for {
			rec, ok := r.Next()
			if !ok {
				break
			}
			if alpha == nil {
				alpha = alphabet.Sniff(rec.Seq)
			}
			records = append(records, multiseq.Record{Name: rec.Name, Seq: rec.Seq})
		}
		if err := r.Err(); err != nil {
			log.Panicf("esa-index: reading %s: %v", path, err)
		}
		if err := r.Close(); err != nil {
			log.Panicf("esa-index: closing %s: %v", path, err)
		}
	}
	if alpha == nil {
		log.Panicf("esa-index: no sequences read from %v", paths)
	}
	return records, alpha
}
