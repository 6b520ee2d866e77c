package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"perpus-admin-api/internal/domain"
	"perpus-admin-api/internal/library"
	httpez "perpus-admin-api/internal/transport/http/ez"
)

func mountLoanActions(authed *gin.RouterGroup, svc *library.Service, invalidateStats func(*gin.Context)) {
	ez := httpez.New(authed)

	type loanListQ struct {
		Filter string `form:"filter,default=all"` // all | active | overdue
	}
	httpez.Register[loanListQ, []library.LoanWithDetails](ez, httpez.Action[loanListQ, []library.LoanWithDetails]{
		Method: http.MethodGet,
		Path:   "/loans",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *loanListQ) ([]library.LoanWithDetails, error) {
			view := library.LoanView(in.Filter)
			switch view {
			case library.ViewAll, library.ViewActive, library.ViewOverdue:
			default:
				return nil, httpez.BadRequest("filter must be all, active or overdue")
			}
			return svc.ListLoans(c.Request.Context(), view)
		},
	})

	type borrowerIn struct {
		MemberID       string `json:"memberId"`
		NonMemberName  string `json:"nonMemberName"`
		NonMemberPhone string `json:"nonMemberPhone"`
		NonMemberClass string `json:"nonMemberClass"`
	}
	type createIn struct {
		BookIDs    []string   `json:"bookIds" binding:"required"`
		Borrower   borrowerIn `json:"borrower"`
		BorrowDate time.Time  `json:"borrowDate"`
		DueDate    time.Time  `json:"dueDate"`
		Notes      string     `json:"notes" binding:"max=500"`
	}
	httpez.Register[createIn, *domain.Loan](ez, httpez.Action[createIn, *domain.Loan]{
		Method: http.MethodPost,
		Path:   "/loans",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *createIn) (*domain.Loan, error) {
			var borrower domain.Borrower
			switch {
			case in.Borrower.MemberID != "" && in.Borrower.NonMemberName != "":
				return nil, httpez.BadRequest("choose a member or a non-member borrower, not both")
			case in.Borrower.MemberID != "":
				borrower = domain.MemberRef{MemberID: in.Borrower.MemberID}
			default:
				borrower = domain.Guest{
					Name:  in.Borrower.NonMemberName,
					Phone: in.Borrower.NonMemberPhone,
					Class: in.Borrower.NonMemberClass,
				}
			}
			loan, err := svc.CreateLoan(c.Request.Context(), library.CreateLoanInput{
				BookIDs:    in.BookIDs,
				Borrower:   borrower,
				BorrowDate: in.BorrowDate,
				DueDate:    in.DueDate,
				Notes:      in.Notes,
			})
			if err != nil {
				return nil, err
			}
			invalidateStats(c)
			return loan, nil
		},
	})

	httpez.Register[struct{}, *domain.Loan](ez, httpez.Action[struct{}, *domain.Loan]{
		Method: http.MethodPost,
		Path:   "/loans/:id/return",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Loan, error) {
			loan, err := svc.ReturnLoan(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			invalidateStats(c)
			return loan, nil
		},
	})

	type updateIn struct {
		DueDate *time.Time `json:"dueDate"`
		Notes   *string    `json:"notes"`
	}
	httpez.Register[updateIn, *domain.Loan](ez, httpez.Action[updateIn, *domain.Loan]{
		Method: http.MethodPut,
		Path:   "/loans/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, in *updateIn) (*domain.Loan, error) {
			loan, err := svc.UpdateLoan(c.Request.Context(), c.Param("id"), library.UpdateLoanInput{
				DueDate: in.DueDate,
				Notes:   in.Notes,
			})
			if err != nil {
				return nil, err
			}
			invalidateStats(c)
			return loan, nil
		},
	})

	httpez.Register[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/loans/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  staffRoles,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := svc.DeleteLoan(c.Request.Context(), id); err != nil {
				return nil, err
			}
			invalidateStats(c)
			return gin.H{"id": id}, nil
		},
	})
}
