package taskstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookrouter/internal/session"
	"github.com/smykla-skalski/hookrouter/internal/taskstore"
)

func TestTaskStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TaskStore Suite")
}

func seed(path string, rows ...[]any) {
	db, err := sql.Open("sqlite", path)
	Expect(err).NotTo(HaveOccurred())

	defer db.Close()

	_, err = db.Exec(taskstore.Schema)
	Expect(err).NotTo(HaveOccurred())

	for _, row := range rows {
		_, err = db.Exec(
			`INSERT INTO tasks (id, session_id, title, status, checklist_total, checklist_done, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`, row...)
		Expect(err).NotTo(HaveOccurred())
	}
}

var _ = Describe("Store", func() {
	var (
		path  string
		store *taskstore.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "tasks.db")
		ctx = context.Background()
	})

	AfterEach(func() {
		if store != nil {
			Expect(store.Close()).To(Succeed())
		}
	})

	It("should return the most recently updated active task", func() {
		seed(path,
			[]any{"T-1", "sess", "Old", "active", 2, 2, "2026-01-01T10:00:00Z"},
			[]any{"T-2", "sess", "Current", "active", 4, 1, "2026-01-02T10:00:00Z"},
			[]any{"T-3", "sess", "Closed", "done", 1, 1, "2026-01-03T10:00:00Z"},
			[]any{"T-4", "other", "Foreign", "active", 0, 0, "2026-01-04T10:00:00Z"},
		)

		store = taskstore.New(path)

		task, err := store.ActiveTask(ctx, "sess")
		Expect(err).NotTo(HaveOccurred())
		Expect(task.ID).To(Equal("T-2"))
		Expect(task.Title).To(Equal("Current"))
		Expect(task.OpenItems()).To(Equal(3))
		Expect(task.UpdatedAt).To(Equal(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)))
	})

	It("should return nil without error when the session has no active task", func() {
		seed(path)
		store = taskstore.New(path)

		task, err := store.ActiveTask(ctx, "nobody")
		Expect(err).NotTo(HaveOccurred())
		Expect(task).To(BeNil())
	})

	It("should report a missing database as unavailable", func() {
		store = taskstore.New(filepath.Join(GinkgoT().TempDir(), "missing.db"))

		_, err := store.ActiveTask(ctx, "sess")
		Expect(errors.Is(err, session.ErrStoreUnavailable)).To(BeTrue())
	})

	It("should report an unconfigured path as unavailable", func() {
		store = taskstore.New("")

		_, err := store.ActiveTask(ctx, "sess")
		Expect(errors.Is(err, session.ErrStoreUnavailable)).To(BeTrue())
	})

	It("should report a database without the tasks table as unavailable", func() {
		db, err := sql.Open("sqlite", path)
		Expect(err).NotTo(HaveOccurred())
		_, err = db.Exec(`CREATE TABLE unrelated (x INTEGER)`)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Close()).To(Succeed())

		store = taskstore.New(path, taskstore.WithTimeout(time.Second))

		_, err = store.ActiveTask(ctx, "sess")
		Expect(errors.Is(err, session.ErrStoreUnavailable)).To(BeTrue())
	})

	It("should count tasks", func() {
		seed(path,
			[]any{"T-1", "sess", "One", "active", 0, 0, "2026-01-01T10:00:00Z"},
			[]any{"T-2", "sess", "Two", "done", 0, 0, "2026-01-02T10:00:00Z"},
		)
		store = taskstore.New(path)

		n, err := store.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
	})

	It("should fail to count a missing database", func() {
		store = taskstore.New(filepath.Join(GinkgoT().TempDir(), "missing.db"))

		_, err := store.Count(ctx)
		Expect(errors.Is(err, session.ErrStoreUnavailable)).To(BeTrue())
	})

	It("should serve the session snapshot", func() {
		seed(path, []any{"T-9", "sess", "Bound", "active", 0, 0, "2026-02-01T00:00:00Z"})
		store = taskstore.New(path)

		snap := session.NewSnapshot("sess", "/repo", session.WithTaskSource(store))

		task, err := snap.ActiveTask(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(task.Summary()).To(Equal("Active task T-9: Bound [active]"))
	})
})
