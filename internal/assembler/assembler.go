// Package assembler reconstructs contigs from a k-mer file. Every rank reads
// its share of the file into a distributed hash table, then walks the contigs
// that start in its share by looking up each following k-mer.
package assembler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/kmerasm/internal/dhash"
	"github.com/skyline93/kmerasm/internal/fs"
	"github.com/skyline93/kmerasm/internal/kmer"
	"github.com/skyline93/kmerasm/internal/remote"
	"github.com/skyline93/kmerasm/internal/spmd"
)

var (
	// ErrTableFull is returned when a k-mer finds no free slot.
	ErrTableFull = errors.New("hash map is full")

	// ErrKmerNotFound is returned when a contig links to a k-mer that is not
	// in the table.
	ErrKmerNotFound = errors.New("k-mer not found in hash map")
)

type table = dhash.HashMap[kmer.Kmer, kmer.Pair]

// RankStats summarizes the work of one rank.
type RankStats struct {
	Rank       int
	Contigs    int
	Nodes      int
	StartNodes int

	Read   time.Duration
	Insert time.Duration
	Total  time.Duration
}

// Run assembles the k-mers in path. Any error on any rank aborts the whole run.
func Run(ctx context.Context, path string, opts Options, console *Console) ([]RankStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := kmer.CheckSize(path, opts.KmerLen); err != nil {
		return nil, err
	}

	n, err := kmer.LineCount(path)
	if err != nil {
		return nil, err
	}

	capacity, perRank, err := dhash.Size(n, opts.LoadFactor, opts.Ranks)
	if err != nil {
		return nil, err
	}

	if opts.Mode == ModeTest {
		if err := fs.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, errors.Wrap(err, "create output directory")
		}
	}

	fabric, err := remote.Open(opts.Transport, opts.Ranks)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := fabric.Close(); cerr != nil {
			log.Warnf("closing fabric: %v", cerr)
		}
	}()

	log.WithFields(log.Fields{
		"path":      path,
		"kmers":     n,
		"ranks":     opts.Ranks,
		"capacity":  capacity,
		"per_rank":  perRank,
		"transport": opts.Transport,
	}).Info("starting assembly")

	stats := make([]RankStats, opts.Ranks)
	err = spmd.Run(ctx, opts.Ranks, func(ctx context.Context, r *spmd.Rank) error {
		st, err := runRank(ctx, r, fabric, capacity, path, opts, console)
		if err != nil {
			return errors.WithMessagef(err, "rank %d", r.Me())
		}
		stats[r.Me()] = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func runRank(ctx context.Context, r *spmd.Rank, fabric remote.Fabric, capacity int, path string, opts Options, console *Console) (RankStats, error) {
	st := RankStats{Rank: r.Me()}

	m, err := dhash.Bootstrap[kmer.Kmer, kmer.Pair](ctx, r, fabric, capacity, dhash.Options{})
	if err != nil {
		return st, err
	}

	pairs, err := kmer.ReadAssigned(path, r.N(), r.Me())
	if err != nil {
		return st, err
	}
	if opts.Mode == ModeVerbose {
		console.Printf(r, "Finished reading kmers.\n")
	}

	start := time.Now()
	starts, err := insertAll(ctx, m, pairs)
	if err != nil {
		return st, err
	}
	endInsert := time.Now()

	// nobody looks up k-mers another rank is still inserting
	if err := r.Barrier(ctx); err != nil {
		return st, err
	}

	st.Insert = endInsert.Sub(start)
	if opts.Mode == ModeVerbose {
		console.Printf(r, "Finished inserting in %f\n", st.Insert.Seconds())
	}
	if err := r.Barrier(ctx); err != nil {
		return st, err
	}

	startRead := time.Now()
	contigs, err := traverse(ctx, m, starts)
	if err != nil {
		return st, err
	}
	endRead := time.Now()

	if err := r.Barrier(ctx); err != nil {
		return st, err
	}
	end := time.Now()

	st.Read = endRead.Sub(startRead)
	st.Total = end.Sub(start)
	st.StartNodes = len(starts)
	st.Contigs = len(contigs)
	for _, c := range contigs {
		st.Nodes += len(c)
	}

	if opts.Mode != ModeTest {
		console.Printf(r, "Assembled in %f total\n", st.Total.Seconds())
	}

	if opts.Mode == ModeVerbose {
		console.RankPrintf("Rank %d reconstructed %d contigs with %d nodes from %d start nodes. (%f read, %f insert, %f total)\n",
			r.Me(), st.Contigs, st.Nodes, st.StartNodes, st.Read.Seconds(), st.Insert.Seconds(), st.Total.Seconds())
	}

	hs := m.Stats()
	log.WithField("rank", r.Me()).Debugf("%d inserts, %d finds, %d probes", hs.Inserts, hs.Finds, hs.Probes)

	if opts.Mode == ModeTest {
		if err := writeContigs(OutputName(opts.OutputDir, r.Me()), contigs); err != nil {
			return st, err
		}
	}

	return st, nil
}

// insertAll inserts pairs and returns those that start a contig.
func insertAll(ctx context.Context, m *table, pairs []kmer.Pair) ([]kmer.Pair, error) {
	var starts []kmer.Pair
	for _, p := range pairs {
		ok, err := m.Insert(ctx, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(ErrTableFull, "inserting %v into %d slots", p.Kmer, m.Capacity())
		}

		if p.BackwardExt() == kmer.Terminal {
			starts = append(starts, p)
		}
	}
	return starts, nil
}

// traverse follows every start pair forward until a pair without forward
// extension is reached.
func traverse(ctx context.Context, m *table, starts []kmer.Pair) ([][]kmer.Pair, error) {
	contigs := make([][]kmer.Pair, 0, len(starts))
	for _, s := range starts {
		contig := []kmer.Pair{s}
		for last := s; last.ForwardExt() != kmer.Terminal; last = contig[len(contig)-1] {
			if len(contig) > m.Capacity() {
				return nil, errors.Errorf("contig starting at %v does not terminate", s.Kmer)
			}

			next, err := last.NextKmer()
			if err != nil {
				return nil, err
			}

			p, found, err := m.Find(ctx, next)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errors.Wrapf(ErrKmerNotFound, "%v, following %v", next, last.Kmer)
			}
			contig = append(contig, p)
		}
		contigs = append(contigs, contig)
	}
	return contigs, nil
}
