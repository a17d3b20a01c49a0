package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/theplanbeta/invoice/internal/domain/invoice"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/domain/shared/valueobject"
)

// Edit applies one form change to a draft and returns the recomputed quote.
// Currency and level changes reprice from the pricing table, so amounts
// typed by hand on the affected courses are replaced.
func (s *InvoiceService) Edit(ctx context.Context, req EditRequest) (*QuoteResponse, error) {
	d, err := req.Draft.ToDraft(s.ref)
	if err != nil {
		return nil, err
	}
	if d, err = applyEdit(d, req.Op, s.ref.Pricing); err != nil {
		return nil, err
	}
	if err := s.checkAmounts(d); err != nil {
		return nil, err
	}
	return s.quote(d), nil
}

func applyEdit(d domain.Draft, op EditOp, table domain.PricingTable) (domain.Draft, error) {
	switch op.Kind {
	case EditInvoiceNumber:
		return d.WithInvoiceNumber(strings.TrimSpace(op.Value)), nil

	case EditIssueDate, EditDueDate:
		if op.Value != "" {
			if _, err := time.Parse(domain.DateLayout, op.Value); err != nil {
				return d, shared.NewDomainError(shared.ErrInvalidInput.Code,
					fmt.Sprintf("%s must be YYYY-MM-DD, got %q", op.Kind, op.Value))
			}
		}
		if op.Kind == EditIssueDate {
			return d.WithIssueDate(op.Value), nil
		}
		return d.WithDueDate(op.Value), nil

	case EditCurrency:
		c, err := valueobject.ParseCurrency(op.Value)
		if err != nil {
			return d, shared.NewDomainError(shared.ErrInvalidCurrency.Code, err.Error())
		}
		return d.WithCurrency(c, table)

	case EditStudentName, EditStudentAddress, EditStudentEmail, EditStudentPhone:
		st := d.Student
		switch op.Kind {
		case EditStudentName:
			st.Name = op.Value
		case EditStudentAddress:
			st.Address = op.Value
		case EditStudentEmail:
			st.Email = strings.TrimSpace(op.Value)
		default:
			st.Phone = op.Value
		}
		return d.WithStudent(st), nil

	case EditLevel:
		l, err := domain.ParseLevel(op.Value)
		if err != nil {
			return d, shared.NewDomainError(shared.ErrInvalidLevel.Code, err.Error())
		}
		return d.WithItemLevel(op.Index, l, table)

	case EditDescription:
		v := op.Value
		return d.WithItem(op.Index, domain.ItemPatch{Description: &v})

	case EditMonth:
		m, err := domain.ParseMonth(op.Value)
		if err != nil {
			return d, shared.NewDomainError(shared.ErrInvalidInput.Code, err.Error())
		}
		return d.WithItem(op.Index, domain.ItemPatch{Month: &m})

	case EditBatch:
		b, err := domain.ParseBatch(op.Value)
		if err != nil {
			return d, shared.NewDomainError(shared.ErrInvalidInput.Code, err.Error())
		}
		return d.WithItem(op.Index, domain.ItemPatch{Batch: &b})

	case EditAmount:
		a := domain.Amount(op.Value)
		return d.WithItem(op.Index, domain.ItemPatch{Amount: &a})

	case EditAddItem:
		return d.AddItem(table), nil

	case EditRemoveItem:
		return d.RemoveItem(op.Index)

	case EditPayableNow:
		return d.WithPayableNow(domain.Amount(op.Value)), nil

	case EditNotes:
		return d.WithNotes(op.Value), nil
	}

	return d, shared.NewDomainError(shared.ErrInvalidInput.Code,
		fmt.Sprintf("unknown edit %q (want one of %s)", op.Kind, strings.Join(EditKinds(), ", ")))
}
