package export

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

var _ = Describe("ExportReceiptsXLSX", func() {
	var (
		ctx  context.Context
		repo *repository.SQLiteRepository
		svc  *Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		repo, err = repository.OpenSQLite(ctx, ":memory:", nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(repo.Close)
		svc = NewService(repo, nil)
	})

	save := func(store string, total *string, items []entity.Item, uploadedAt time.Time) {
		rec := &entity.Receipt{
			ID:         uuid.New(),
			UserID:     "u1",
			UploadedAt: uploadedAt,
			ParsedReceipt: entity.ParsedReceipt{
				StoreName: store,
				Items:     items,
				Total:     total,
			},
		}
		Expect(repo.Save(ctx, rec)).To(Succeed())
	}

	It("writes one row per receipt, newest first, under a header row", func() {
		total := "5.94"
		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		save("Older Mart", nil, nil, base)
		save("Newer Mart", &total, []entity.Item{{Name: "Milk", Price: "2.50"}}, base.Add(time.Hour))

		b, err := svc.ExportReceiptsXLSX(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(b))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		cell := func(ref string) string {
			v, err := f.GetCellValue("Receipts", ref)
			Expect(err).NotTo(HaveOccurred())
			return v
		}

		Expect(cell("A1")).To(Equal("Store"))
		Expect(cell("F1")).To(Equal("Uploaded At"))

		Expect(cell("A2")).To(Equal("Newer Mart"))
		Expect(cell("D2")).To(Equal("5.94"))
		Expect(cell("E2")).To(Equal("1"))
		Expect(cell("F2")).To(Equal("2026-08-01T13:00:00Z"))

		Expect(cell("A3")).To(Equal("Older Mart"))
		Expect(cell("D3")).To(BeEmpty())
		Expect(cell("E3")).To(Equal("0"))
	})

	It("produces a header-only workbook for a user without receipts", func() {
		b, err := svc.ExportReceiptsXLSX(ctx, "nobody")
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(b))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Receipts")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
