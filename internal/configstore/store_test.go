package configstore_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/antihub/antihook/internal/configstore"
)

// crashBeforeRenameFs fails the rename that would publish the new file.
type crashBeforeRenameFs struct {
	afero.Fs
}

func (crashBeforeRenameFs) Rename(oldname, newname string) error {
	return errors.New("simulated crash before rename")
}

var _ = Describe("Store", func() {
	var (
		home     string
		fs       afero.Fs
		store    *configstore.Store
		wantPath string
	)

	homeDir := func() (string, error) { return home, nil }

	BeforeEach(func() {
		home = GinkgoT().TempDir()
		fs = afero.NewOsFs()
		store = configstore.New(fs, homeDir, nil)
		wantPath = filepath.Join(home, ".config", "antihook", "config.json")
	})

	Describe("Path", func() {
		It("points into the per-user config directory", func() {
			path, err := store.Path()
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(wantPath))
		})

		It("fails when the home directory cannot be resolved", func() {
			s := configstore.New(fs, func() (string, error) {
				return "", errors.New("$HOME is not defined")
			}, nil)

			_, err := s.Path()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, configstore.ErrMissingHomeDir)).To(BeTrue())
			Expect(configstore.IsKind(err, configstore.KindMissingHomeDir)).To(BeTrue())
			Expect(err.Error()).To(Equal("missing user home directory"))
		})

		It("treats an empty home directory as missing", func() {
			s := configstore.New(fs, func() (string, error) { return "", nil }, nil)

			_, err := s.Path()
			Expect(configstore.IsKind(err, configstore.KindMissingHomeDir)).To(BeTrue())
		})
	})

	Describe("Load", func() {
		It("returns nil without error when nothing was saved", func() {
			cfg, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("fails on malformed JSON instead of treating it as absent", func() {
			Expect(os.MkdirAll(filepath.Dir(wantPath), 0o755)).To(Succeed())
			Expect(os.WriteFile(wantPath, []byte("{not json"), 0o600)).To(Succeed())

			cfg, err := store.Load()
			Expect(cfg).To(BeNil())
			Expect(configstore.IsKind(err, configstore.KindJSON)).To(BeTrue())
			Expect(err.Error()).To(HavePrefix("json error: "))
		})

		It("returns the stored value verbatim", func() {
			Expect(os.MkdirAll(filepath.Dir(wantPath), 0o755)).To(Succeed())
			Expect(os.WriteFile(wantPath, []byte(`{"server_url":"https://a.example","theme":"dark"}`), 0o600)).To(Succeed())

			cfg, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ServerURL).To(Equal("https://a.example"))
		})

		It("accepts files written with the legacy field name", func() {
			Expect(os.MkdirAll(filepath.Dir(wantPath), 0o755)).To(Succeed())
			Expect(os.WriteFile(wantPath, []byte(`{"kiro_server_url":"http://legacy.example"}`), 0o600)).To(Succeed())

			cfg, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ServerURL).To(Equal("http://legacy.example"))
		})

		It("prefers server_url over the legacy field", func() {
			Expect(os.MkdirAll(filepath.Dir(wantPath), 0o755)).To(Succeed())
			Expect(os.WriteFile(wantPath, []byte(`{"server_url":"https://new.example","kiro_server_url":"http://old.example"}`), 0o600)).To(Succeed())

			cfg, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ServerURL).To(Equal("https://new.example"))
		})

		It("reports read failures as io errors", func() {
			Expect(os.MkdirAll(wantPath, 0o755)).To(Succeed())

			_, err := store.Load()
			Expect(configstore.IsKind(err, configstore.KindIO)).To(BeTrue())
		})
	})

	Describe("Save", func() {
		It("returns the normalized URL and round-trips through Load", func() {
			normalized, err := store.Save("  https://good.example/ ")
			Expect(err).NotTo(HaveOccurred())
			Expect(normalized).To(Equal("https://good.example"))

			cfg, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(&configstore.Configuration{ServerURL: "https://good.example"}))
		})

		It("writes pretty-printed JSON with a trailing newline", func() {
			_, err := store.Save("http://localhost:8045")
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(wantPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("{\n  \"server_url\": \"http://localhost:8045\"\n}\n"))
		})

		It("leaves no temporary file behind", func() {
			_, err := store.Save("http://localhost:8045")
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(wantPath + ".tmp")
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("replaces an existing configuration", func() {
			_, err := store.Save("https://first.example")
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Save("https://second.example")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ServerURL).To(Equal("https://second.example"))
		})

		It("does not create anything for an invalid URL", func() {
			_, err := store.Save("ftp://files.example")
			Expect(configstore.IsKind(err, configstore.KindInvalidURL)).To(BeTrue())
			Expect(err.Error()).To(Equal("invalid url: unsupported scheme: ftp"))

			_, statErr := os.Stat(filepath.Join(home, ".config"))
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})

		It("does not modify an existing file for an invalid URL", func() {
			_, err := store.Save("https://kept.example")
			Expect(err).NotTo(HaveOccurred())
			before, err := os.ReadFile(wantPath)
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Save("   ")
			Expect(err).To(HaveOccurred())

			after, err := os.ReadFile(wantPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		Context("when persistence is interrupted before the rename", func() {
			var crashing *configstore.Store

			BeforeEach(func() {
				crashing = configstore.New(crashBeforeRenameFs{Fs: fs}, homeDir, nil)
			})

			It("keeps the previous configuration", func() {
				_, err := store.Save("https://previous.example")
				Expect(err).NotTo(HaveOccurred())

				_, err = crashing.Save("https://next.example")
				Expect(configstore.IsKind(err, configstore.KindIO)).To(BeTrue())
				Expect(err.Error()).To(HavePrefix("io error: "))

				cfg, err := store.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.ServerURL).To(Equal("https://previous.example"))

				_, statErr := os.Stat(wantPath + ".tmp")
				Expect(os.IsNotExist(statErr)).To(BeTrue())
			})

			It("keeps the configuration absent", func() {
				_, err := crashing.Save("https://next.example")
				Expect(err).To(HaveOccurred())

				cfg, err := store.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).To(BeNil())
			})
		})

		It("works against an in-memory filesystem", func() {
			mem := configstore.New(afero.NewMemMapFs(), func() (string, error) { return "/home/tester", nil }, nil)

			_, err := mem.Save("https://mem.example/")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := mem.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ServerURL).To(Equal("https://mem.example"))
		})
	})

	Describe("Resolve", func() {
		It("prefers a non-blank override", func() {
			_, err := store.Save("https://saved.example")
			Expect(err).NotTo(HaveOccurred())

			url, err := store.Resolve(" https://env.example/ ")
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://env.example"))
		})

		It("rejects an invalid override", func() {
			_, err := store.Resolve("not a url")
			Expect(configstore.IsKind(err, configstore.KindInvalidURL)).To(BeTrue())
		})

		It("falls back to the saved configuration", func() {
			_, err := store.Save("https://saved.example")
			Expect(err).NotTo(HaveOccurred())

			url, err := store.Resolve("  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://saved.example"))
		})

		It("reports when nothing is configured", func() {
			_, err := store.Resolve("")
			Expect(err).To(MatchError(configstore.ErrNotConfigured))
		})
	})
})
