package baseurl_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/antihub/antihook/internal/baseurl"
)

var _ = Describe("Normalize", func() {
	DescribeTable("accepted values",
		func(raw, want string) {
			got, err := baseurl.Normalize(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(got).NotTo(HaveSuffix("/"))
		},
		Entry("plain https", "https://good.example", "https://good.example"),
		Entry("surrounding whitespace", "  http://localhost:8080 \n", "http://localhost:8080"),
		Entry("single trailing slash", "https://good.example/", "https://good.example"),
		Entry("many trailing slashes", "https://good.example///", "https://good.example"),
		Entry("path prefix kept", "https://good.example/antihub/", "https://good.example/antihub"),
		Entry("ip and port", "http://127.0.0.1:8045", "http://127.0.0.1:8045"),
		Entry("original casing preserved", "HTTPS://Good.Example", "HTTPS://Good.Example"),
		Entry("whitespace between slashes", "http://host/ /", "http://host"),
	)

	DescribeTable("rejected values",
		func(raw, detail string) {
			_, err := baseurl.Normalize(raw)
			Expect(err).To(HaveOccurred())

			var urlErr *baseurl.Error
			Expect(errors.As(err, &urlErr)).To(BeTrue())
			Expect(urlErr.Detail).To(Equal(detail))
			Expect(err.Error()).To(Equal("invalid url: " + detail))
		},
		Entry("empty", "", "empty url"),
		Entry("whitespace only", "   ", "empty url"),
		Entry("slashes only", "///", "empty url"),
		Entry("ftp scheme", "ftp://files.example", "unsupported scheme: ftp"),
		Entry("no scheme", "good.example", "unsupported scheme: "),
		Entry("file scheme", "file:///etc/passwd", "unsupported scheme: file"),
		Entry("scheme without host", "http://", "missing host"),
		Entry("opaque http", "http:good.example", "missing host"),
		Entry("port without host", "http://:8080", "missing host"),
		Entry("port without host and path", "https://:443/antihub", "missing host"),
	)

	It("reports parse failures", func() {
		_, err := baseurl.Normalize("http://[::1")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("invalid url: "))
		Expect(err.Error()).NotTo(ContainSubstring(`"http://[::1"`))
	})

	It("is idempotent", func() {
		for _, raw := range []string{
			"https://good.example/",
			" http://localhost:3000// ",
			"https://good.example/backend/",
			"http://host/ /",
		} {
			once, err := baseurl.Normalize(raw)
			Expect(err).NotTo(HaveOccurred())

			twice, err := baseurl.Normalize(once)
			Expect(err).NotTo(HaveOccurred())
			Expect(twice).To(Equal(once))
		}
	})
})

var _ = Describe("Join", func() {
	It("inserts exactly one separator", func() {
		Expect(baseurl.Join("https://good.example", "/api/health")).To(Equal("https://good.example/api/health"))
		Expect(baseurl.Join("https://good.example", "api/health")).To(Equal("https://good.example/api/health"))
	})
})
