package ingest

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
	"github.com/scanline-labs/receipt-scanner/internal/pipeline"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

// stubAnnotator maps image content to a canned result; unknown content gets
// an empty result so the engine reports nothing extractable.
type stubAnnotator struct {
	byContent map[string]*ocr.Result
}

func (s *stubAnnotator) Annotate(_ context.Context, image []byte) (*ocr.Result, error) {
	if res, ok := s.byContent[string(image)]; ok {
		return res, nil
	}
	return &ocr.Result{}, nil
}

func quad(minX, minY, maxX, maxY float64) ocr.BoundingPoly {
	return ocr.BoundingPoly{Vertices: []ocr.Vertex{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	}}
}

func receiptResult() *ocr.Result {
	return &ocr.Result{Annotations: []ocr.Annotation{
		{Description: "Store A\nMilk 2.50"},
		{Description: "Milk", BoundingPoly: quad(10, 40, 60, 60)},
		{Description: "2.50", BoundingPoly: quad(200, 40, 240, 60)},
	}}
}

var _ = Describe("IngestDirectory", func() {
	var (
		ctx      context.Context
		root     string
		repo     *repository.SQLiteRepository
		ingestor *Ingestor
	)

	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		root = GinkgoT().TempDir()

		var err error
		repo, err = repository.OpenSQLite(ctx, ":memory:", nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(repo.Close)

		annotator := &stubAnnotator{byContent: map[string]*ocr.Result{
			"good": receiptResult(),
		}}
		processor := pipeline.NewProcessor(nil, annotator, layout.NewExtractor(nil), repo)
		ingestor = NewIngestor(nil, processor)
	})

	It("processes matching images and stores their receipts", func() {
		write("a.jpg", "good")
		write("nested/b.png", "good")

		results, stats, err := ingestor.IngestDirectory(ctx, root, "batch-user")
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Scanned).To(Equal(uint32(2)))
		Expect(stats.Matched).To(Equal(uint32(2)))
		Expect(stats.Succeeded).To(Equal(uint32(2)))
		Expect(results).To(HaveLen(2))
		for _, r := range results {
			Expect(r.ReceiptID).NotTo(BeEmpty())
			Expect(r.Err).To(BeEmpty())
		}

		recs, err := repo.ListByUser(ctx, "batch-user")
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(2))
	})

	It("ignores non-image extensions and hidden entries", func() {
		write("a.jpg", "good")
		write("notes.txt", "not an image")
		write(".hidden/c.jpg", "good")
		write(".DS_Store", "junk")

		_, stats, err := ingestor.IngestDirectory(ctx, root, "batch-user")
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Scanned).To(Equal(uint32(2)))
		Expect(stats.Matched).To(Equal(uint32(1)))
		Expect(stats.Succeeded).To(Equal(uint32(1)))
	})

	It("counts unreadable receipts as skipped and keeps going", func() {
		write("blank.jpg", "nothing on it")
		write("ok.jpg", "good")

		results, stats, err := ingestor.IngestDirectory(ctx, root, "batch-user")
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Matched).To(Equal(uint32(2)))
		Expect(stats.Succeeded).To(Equal(uint32(1)))
		Expect(stats.Skipped).To(Equal(uint32(1)))
		Expect(results).To(HaveLen(2))
	})

	It("requires a root path", func() {
		_, _, err := ingestor.IngestDirectory(ctx, "  ", "batch-user")
		Expect(err).To(HaveOccurred())
	})

	It("stops at context cancellation", func() {
		write("a.jpg", "good")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := ingestor.IngestDirectory(cancelled, root, "batch-user")
		Expect(err).To(MatchError(context.Canceled))
	})
})
