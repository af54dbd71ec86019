package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/revision"
)

var (
	revisionAlgorithm   string
	revisionAuthor      string
	revisionDescription string
	revisionStatus      string
	revisionComments    string
	revisionEmbed       bool
	revisionOut         string
)

var revisionCmd = &cobra.Command{
	Use:   "revision",
	Short: "Hash model files and keep their revision log",
	Long: `Record revisions of a model file keyed by its content hash.

Records are append-only: approving or rejecting a revision adds a new record.
The log is kept in the configured store (revision.store = memory or sqlite)
under the file's base name.

Examples:
  ifcaudit revision hash house.ifc --algorithm sha3-256
  ifcaudit revision record house.ifc --author "J. Doe" --description "Issued for tender"
  ifcaudit revision record house.ifc --status approved --embed --out house.approved.ifc
  ifcaudit revision log house.ifc`,
}

var revisionHashCmd = &cobra.Command{
	Use:   "hash <file>",
	Short: "Print the content hash of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevisionHash,
}

var revisionRecordCmd = &cobra.Command{
	Use:   "record <file>",
	Short: "Append a revision record for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevisionRecord,
}

var revisionLogCmd = &cobra.Command{
	Use:   "log <file>",
	Short: "Show the revision log of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevisionLog,
}

func init() {
	revisionCmd.PersistentFlags().StringVar(&revisionAlgorithm, "algorithm", "",
		"Digest: sha256, md5, sha3-256 or blake2b-256 (default from config)")

	revisionRecordCmd.Flags().StringVar(&revisionAuthor, "author", "", "Record author (default from config)")
	revisionRecordCmd.Flags().StringVar(&revisionDescription, "description", "", "What changed in this revision")
	revisionRecordCmd.Flags().StringVar(&revisionStatus, "status", "pending", "Approval status: pending, approved or rejected")
	revisionRecordCmd.Flags().StringVar(&revisionComments, "comments", "", "Reviewer comments")
	revisionRecordCmd.Flags().BoolVar(&revisionEmbed, "embed", false, "Also write the record into the model's project as a property set")
	revisionRecordCmd.Flags().StringVar(&revisionOut, "out", "", "Model file written by --embed (default: <name>.rev.ifc)")

	revisionCmd.AddCommand(revisionHashCmd, revisionRecordCmd, revisionLogCmd)
	rootCmd.AddCommand(revisionCmd)
}

func hasher() (*revision.Hasher, error) {
	name := revisionAlgorithm
	if name == "" {
		name = currentConfig().Revision.Algorithm
	}
	alg, err := revision.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return revision.NewHasher(alg)
}

func openSession() (*revision.Session, error) {
	cfg := currentConfig().Revision
	store, err := revision.OpenStore(cfg.Store, cfg.DSN, appLogger)
	if err != nil {
		return nil, err
	}
	return revision.NewSession(store, appLogger), nil
}

func runRevisionHash(cmd *cobra.Command, args []string) error {
	h, err := hasher()
	if err != nil {
		return err
	}
	sum, err := h.HashPath(args[0])
	if err != nil {
		return err
	}
	return printResponse(cmd, &HashResponseCLI{
		File:      args[0],
		Algorithm: string(h.Algorithm()),
		Hash:      sum,
	})
}

func runRevisionRecord(cmd *cobra.Command, args []string) error {
	path := args[0]
	status, err := revision.ParseApprovalStatus(revisionStatus)
	if err != nil {
		return err
	}
	h, err := hasher()
	if err != nil {
		return err
	}
	sum, err := h.HashPath(path)
	if err != nil {
		return err
	}
	author := revisionAuthor
	if author == "" {
		author = currentConfig().Revision.Author
	}

	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	fileName := filepath.Base(path)
	log, err := session.Append(commandContext(cmd), fileName, revision.Record{
		FileHash:       sum,
		Algorithm:      h.Algorithm(),
		Author:         author,
		Description:    revisionDescription,
		ApprovalStatus: status,
		Comments:       revisionComments,
	})
	if err != nil {
		return err
	}

	resp := &RevisionLogResponseCLI{FileName: fileName, Records: log}
	if revisionEmbed {
		out, err := embedLatest(path, log[len(log)-1])
		if err != nil {
			return err
		}
		resp.Embedded = out
	}
	return printResponse(cmd, resp)
}

// embedLatest writes a copy of the model at path with rec embedded in its
// project and returns the written path.
func embedLatest(path string, rec revision.Record) (string, error) {
	out := revisionOut
	if out == "" {
		out = defaultEmbedPath(path)
	}
	if sameFile(path, out) {
		return "", errors.Newf(errors.InvalidInput, "--out must differ from the input model %s", path)
	}

	m, err := openModel(path)
	if err != nil {
		return "", err
	}
	if err := revision.EmbedRecord(m, rec); err != nil {
		return "", err
	}

	f, err := os.Create(out)
	if err != nil {
		return "", errors.New(errors.InvalidInput, "cannot create "+out, err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return "", errors.New(errors.InternalError, "cannot write "+out, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.New(errors.InternalError, "cannot write "+out, err)
	}
	appLogger.Info("Revision embedded", "model", out, "record", rec.ID)
	return out, nil
}

// defaultEmbedPath maps house.ifc, house.ifczip and house.ifc.gz to
// house.rev.ifc next to the input.
func defaultEmbedPath(path string) string {
	dir, base := filepath.Split(path)
	for _, ext := range []string{".gz", ".ifczip", ".zip", ".ifc"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
		}
	}
	return filepath.Join(dir, base+".rev.ifc")
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func runRevisionLog(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	fileName := filepath.Base(args[0])
	log, err := session.Log(commandContext(cmd), fileName)
	if err != nil {
		return err
	}
	return printResponse(cmd, &RevisionLogResponseCLI{FileName: fileName, Records: log})
}
