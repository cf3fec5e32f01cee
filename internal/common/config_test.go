package common

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LoadConfig", func() {
	It("applies defaults when the environment is empty", func() {
		cfg := LoadConfig()
		Expect(cfg.Server.HTTPAddr).To(Equal(":8080"))
		Expect(cfg.Database.Driver).To(Equal("sqlite"))
		Expect(cfg.Database.DSN).To(Equal("receipts.db"))
		Expect(cfg.Database.MaxConns).To(Equal(int32(10)))
		Expect(cfg.Database.DialTimeout).To(Equal(3 * time.Second))
	})

	It("reads overrides from the environment", func() {
		GinkgoT().Setenv("HTTP_ADDR", ":9090")
		GinkgoT().Setenv("DB_DRIVER", "postgres")
		GinkgoT().Setenv("DB_URL", "postgres://localhost/receipts")
		GinkgoT().Setenv("DB_MAX_CONNS", "25")
		GinkgoT().Setenv("DB_DIAL_TIMEOUT", "5s")

		cfg := LoadConfig()
		Expect(cfg.Server.HTTPAddr).To(Equal(":9090"))
		Expect(cfg.Database.Driver).To(Equal("postgres"))
		Expect(cfg.Database.DSN).To(Equal("postgres://localhost/receipts"))
		Expect(cfg.Database.MaxConns).To(Equal(int32(25)))
		Expect(cfg.Database.DialTimeout).To(Equal(5 * time.Second))
	})

	It("falls back to the default on an unparseable value", func() {
		GinkgoT().Setenv("DB_MAX_CONNS", "lots")
		Expect(LoadConfig().Database.MaxConns).To(Equal(int32(10)))
	})
})

var _ = Describe("Config validation", func() {
	It("accepts the defaults", func() {
		Expect(LoadConfig().Validate()).To(Succeed())
	})

	It("rejects an unknown database driver", func() {
		cfg := LoadConfig()
		cfg.Database.Driver = "oracle"
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())

		var appErr *AppError
		Expect(errors.As(err, &appErr)).To(BeTrue())
		Expect(appErr.Code).To(Equal("CONFIG_ERROR"))
	})

	It("rejects an empty DSN", func() {
		cfg := LoadConfig()
		cfg.Database.DSN = ""
		Expect(cfg.Validate()).To(HaveOccurred())
	})
})
