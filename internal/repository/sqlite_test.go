package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
)

var _ = Describe("SQLiteRepository", func() {
	var (
		ctx  context.Context
		repo *SQLiteRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		repo, err = OpenSQLite(ctx, ":memory:", nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(repo.Close)
	})

	newReceipt := func(userID string, uploadedAt time.Time) *entity.Receipt {
		date := "12/31/2024"
		total := "5.94"
		return &entity.Receipt{
			ID:         uuid.New(),
			UserID:     userID,
			UploadedAt: uploadedAt,
			ParsedReceipt: entity.ParsedReceipt{
				StoreName: "Store A",
				Date:      &date,
				Items: []entity.Item{
					{Name: "Milk", Price: "2.50"},
					{Name: "Bread", Price: "3.00"},
				},
				Total: &total,
			},
		}
	}

	It("round-trips a receipt", func() {
		rec := newReceipt("u1", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
		Expect(repo.Save(ctx, rec)).To(Succeed())

		got, err := repo.GetByID(ctx, rec.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(rec.ID))
		Expect(got.UserID).To(Equal("u1"))
		Expect(got.StoreName).To(Equal("Store A"))
		Expect(got.Date).To(Equal(rec.Date))
		Expect(got.Tax).To(BeNil())
		Expect(*got.Total).To(Equal("5.94"))
		Expect(got.Items).To(Equal(rec.Items))
		Expect(got.UploadedAt).To(BeTemporally("==", rec.UploadedAt))
	})

	It("preserves an empty item list as empty, not nil", func() {
		rec := newReceipt("u1", time.Now().UTC())
		rec.Items = []entity.Item{}
		Expect(repo.Save(ctx, rec)).To(Succeed())

		got, err := repo.GetByID(ctx, rec.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Items).NotTo(BeNil())
		Expect(got.Items).To(BeEmpty())
	})

	It("returns ErrNotFound for an unknown id", func() {
		_, err := repo.GetByID(ctx, uuid.New())
		Expect(err).To(MatchError(ErrNotFound))
	})

	Describe("ListByUser", func() {
		It("lists a user's receipts newest first", func() {
			base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			older := newReceipt("u1", base)
			newer := newReceipt("u1", base.Add(time.Hour))
			other := newReceipt("u2", base.Add(2*time.Hour))
			for _, r := range []*entity.Receipt{older, newer, other} {
				Expect(repo.Save(ctx, r)).To(Succeed())
			}

			recs, err := repo.ListByUser(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0].ID).To(Equal(newer.ID))
			Expect(recs[1].ID).To(Equal(older.ID))
		})

		It("returns nothing for a user without receipts", func() {
			recs, err := repo.ListByUser(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(BeEmpty())
		})
	})
})
