package impexp

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pecunio/internal/ledger"
	"pecunio/internal/model"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	// DryRun validates the input without writing anything.
	DryRun bool
	// SkipDuplicates skips rows whose external_ref already exists instead of
	// failing on them.
	SkipDuplicates bool
}

// ImportError is one failed row or record.
type ImportError struct {
	Line int
	Err  error
}

func (e ImportError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// OK reports whether the import completed without row errors.
func (r ImportResult) OK() bool { return len(r.Errors) == 0 }

// ImportTransfersCSV reads transfers from CSV and records them through the
// normal write path, so every row is validated like a manual transfer.
// The header must name at least timestamp, from_wallet, to_wallet and
// amount_cents; description, category, tags and external_ref are optional.
func ImportTransfersCSV(r io.Reader, svc *ledger.Service, opts ImportOptions) (ImportResult, error) {
	var result ImportResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return result, fmt.Errorf("reading csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"timestamp", "from_wallet", "to_wallet", "amount_cents"} {
		if _, ok := cols[required]; !ok {
			return result, fmt.Errorf("csv header missing %q column", required)
		}
	}

	seenRefs, err := existingExternalRefs(svc)
	if err != nil {
		return result, err
	}

	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Line: line, Err: err})
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		timestamp, err := time.Parse(time.RFC3339, field("timestamp"))
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Line: line, Err: fmt.Errorf("bad timestamp: %w", err)})
			continue
		}
		amount, err := strconv.ParseInt(field("amount_cents"), 10, 64)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Line: line, Err: fmt.Errorf("bad amount: %w", err)})
			continue
		}

		ref := field("external_ref")
		if ref != "" && seenRefs[ref] {
			if opts.SkipDuplicates {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, ImportError{Line: line, Err: fmt.Errorf("duplicate external_ref %q", ref)})
			continue
		}

		var tags []string
		if raw := field("tags"); raw != "" {
			tags = strings.Split(raw, ";")
		}

		if opts.DryRun {
			if err := validateRow(svc, field("from_wallet"), field("to_wallet"), amount); err != nil {
				result.Errors = append(result.Errors, ImportError{Line: line, Err: err})
				continue
			}
		} else {
			_, err := svc.RecordTransfer(field("from_wallet"), field("to_wallet"), amount, timestamp, ledger.TransferOpts{
				Description: field("description"),
				Category:    field("category"),
				Tags:        tags,
				ExternalRef: ref,
			})
			if err != nil {
				result.Errors = append(result.Errors, ImportError{Line: line, Err: err})
				continue
			}
		}

		if ref != "" {
			seenRefs[ref] = true
		}
		result.Imported++
	}

	return result, nil
}

// validateRow runs the checks a dry run can do without writing.
func validateRow(svc *ledger.Service, fromName, toName string, amount model.Cents) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	from, err := svc.Wallet(fromName)
	if err != nil {
		return err
	}
	to, err := svc.Wallet(toName)
	if err != nil {
		return err
	}
	if from.ID == to.ID {
		return fmt.Errorf("from and to wallet are the same: %q", fromName)
	}
	if from.Currency != to.Currency {
		return fmt.Errorf("currency mismatch: %s vs %s", from.Currency, to.Currency)
	}
	return nil
}

func existingExternalRefs(svc *ledger.Service) (map[string]bool, error) {
	transfers, err := svc.ListTransfers()
	if err != nil {
		return nil, err
	}
	refs := make(map[string]bool)
	for _, t := range transfers {
		if t.ExternalRef != "" {
			refs[t.ExternalRef] = true
		}
	}
	return refs, nil
}

// ImportSnapshot restores a JSON snapshot into the ledger. Everything is
// replayed through normal service operations in ledger order: wallets first,
// then transfers by sequence (reversals replayed as reversals so back-links
// are rebuilt), then archive markers, budgets and schedules. Wallet, transfer
// and schedule ids are reassigned; the restored ledger is equivalent, not
// byte-identical.
func ImportSnapshot(r io.Reader, svc *ledger.Service, opts ImportOptions) (ImportResult, error) {
	var result ImportResult

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return result, fmt.Errorf("decoding snapshot: %w", err)
	}

	if opts.DryRun {
		return validateSnapshot(snap)
	}

	walletName := make(map[uuid.UUID]string, len(snap.Wallets))
	walletID := make(map[uuid.UUID]uuid.UUID, len(snap.Wallets))
	for _, w := range snap.Wallets {
		walletName[w.ID] = w.Name
		created, err := svc.CreateWallet(w.Name, w.Type, w.Currency, w.Description)
		if err != nil {
			if errors.Is(err, ledger.ErrDuplicateName) && opts.SkipDuplicates {
				existing, lookupErr := svc.Wallet(w.Name)
				if lookupErr != nil {
					return result, lookupErr
				}
				walletID[w.ID] = existing.ID
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("restoring wallet %q: %w", w.Name, err)
		}
		walletID[w.ID] = created.ID
		result.Imported++
	}

	transfers := make([]model.Transfer, len(snap.Transfers))
	copy(transfers, snap.Transfers)
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].Sequence < transfers[j].Sequence })

	transferID := make(map[uuid.UUID]uuid.UUID, len(transfers))
	for _, t := range transfers {
		if t.Reverses != nil {
			newID, ok := transferID[*t.Reverses]
			if !ok {
				return result, fmt.Errorf("transfer %s reverses unknown transfer %s", t.ID, *t.Reverses)
			}
			amount := t.Amount
			rev, err := svc.ReverseAt(newID, &amount, t.Timestamp)
			if err != nil {
				return result, fmt.Errorf("restoring reversal of %s: %w", *t.Reverses, err)
			}
			transferID[t.ID] = rev.Reversal.ID
			result.Imported++
			continue
		}

		created, err := svc.RecordTransfer(walletName[t.FromWallet], walletName[t.ToWallet], t.Amount, t.Timestamp, ledger.TransferOpts{
			Description: t.Description,
			Category:    t.Category,
			Tags:        t.Tags,
			ExternalRef: t.ExternalRef,
			// Balance policy already held when the ledger was exported;
			// replay must not re-reject backdated sequences.
			Force: true,
		})
		if err != nil {
			return result, fmt.Errorf("restoring transfer %s: %w", t.ID, err)
		}
		transferID[t.ID] = created.ID
		result.Imported++
	}

	// Archive markers go last so archived wallets could still receive their
	// historical transfers above.
	for _, w := range snap.Wallets {
		if w.ArchivedAt == nil {
			continue
		}
		if _, err := svc.ArchiveWallet(w.Name); err != nil {
			return result, fmt.Errorf("archiving wallet %q: %w", w.Name, err)
		}
	}

	for _, b := range snap.Budgets {
		_, err := svc.CreateBudget(b.Name, b.Category, b.Period, b.Limit)
		if err != nil {
			if errors.Is(err, ledger.ErrDuplicateName) && opts.SkipDuplicates {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("restoring budget %q: %w", b.Name, err)
		}
		result.Imported++
	}

	for _, st := range snap.Scheduled {
		st.ID = uuid.New()
		st.FromWallet = walletID[st.FromWallet]
		st.ToWallet = walletID[st.ToWallet]
		_, err := svc.RestoreScheduled(st)
		if err != nil {
			if errors.Is(err, ledger.ErrDuplicateName) && opts.SkipDuplicates {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("restoring schedule %q: %w", st.Name, err)
		}
		result.Imported++
	}

	return result, nil
}

// validateSnapshot checks referential integrity without writing.
func validateSnapshot(snap Snapshot) (ImportResult, error) {
	var result ImportResult

	wallets := make(map[uuid.UUID]bool, len(snap.Wallets))
	for _, w := range snap.Wallets {
		wallets[w.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(snap.Transfers))
	transfers := make([]model.Transfer, len(snap.Transfers))
	copy(transfers, snap.Transfers)
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].Sequence < transfers[j].Sequence })

	for i, t := range transfers {
		line := i + 1
		switch {
		case !wallets[t.FromWallet] || !wallets[t.ToWallet]:
			result.Errors = append(result.Errors, ImportError{Line: line, Err: fmt.Errorf("transfer %s references unknown wallet", t.ID)})
		case t.Amount <= 0:
			result.Errors = append(result.Errors, ImportError{Line: line, Err: fmt.Errorf("transfer %s has non-positive amount", t.ID)})
		case t.Reverses != nil && !seen[*t.Reverses]:
			result.Errors = append(result.Errors, ImportError{Line: line, Err: fmt.Errorf("transfer %s reverses unknown transfer %s", t.ID, *t.Reverses)})
		default:
			result.Imported++
		}
		seen[t.ID] = true
	}

	for i, st := range snap.Scheduled {
		if !wallets[st.FromWallet] || !wallets[st.ToWallet] {
			result.Errors = append(result.Errors, ImportError{Line: i + 1, Err: fmt.Errorf("schedule %q references unknown wallet", st.Name)})
			continue
		}
		result.Imported++
	}
	result.Imported += len(snap.Wallets) + len(snap.Budgets)

	return result, nil
}
