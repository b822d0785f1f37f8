package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters after role scoping is applied.
type ComplaintFilter struct {
	SubmittedBy *string
	AssignedTo  *string
	// AssigneeQueue matches complaints assigned to the given user or not
	// assigned at all (the staff work queue).
	AssigneeQueue *string
	Status        *domain.ComplaintStatus
	Priority      *domain.ComplaintPriority
	CategoryID    *string
	Search        *string
	SortBy        string
	SortOrder     string
	Limit         int
	Offset        int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error)
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	StatusCounts(ctx context.Context, filter ComplaintFilter) (map[domain.ComplaintStatus]int, error)
	PriorityCounts(ctx context.Context, filter ComplaintFilter) (map[domain.ComplaintPriority]int, error)
	ResolutionStats(ctx context.Context) (avgDays float64, avgRating float64, rated int, err error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, ticket_id, title, description, category_id, priority, status,
       submitted_by, assigned_to, is_anonymous, attachments, responses,
       resolved_at, rejection_reason, satisfaction_rating, satisfaction_feedback,
       created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	attachments, err := json.Marshal(complaint.Attachments)
	if err != nil {
		return err
	}
	responses, err := json.Marshal(complaint.Responses)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO complaints (ticket_id, title, description, category_id, priority, status,
            submitted_by, assigned_to, is_anonymous, attachments, responses, rejection_reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.TicketID,
		complaint.Title,
		complaint.Description,
		complaint.CategoryID,
		complaint.Priority,
		complaint.Status,
		complaint.SubmittedBy,
		complaint.AssignedTo,
		complaint.IsAnonymous,
		attachments,
		responses,
		complaint.RejectionReason,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	responses, err := json.Marshal(complaint.Responses)
	if err != nil {
		return err
	}
	var rating *int
	feedback := ""
	if complaint.Satisfaction != nil {
		rating = &complaint.Satisfaction.Rating
		feedback = complaint.Satisfaction.Feedback
	}
	const query = `
        UPDATE complaints SET status=$1, priority=$2, assigned_to=$3, responses=$4,
            resolved_at=$5, rejection_reason=$6, satisfaction_rating=$7, satisfaction_feedback=$8,
            updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Status,
		complaint.Priority,
		complaint.AssignedTo,
		responses,
		complaint.ResolvedAt,
		complaint.RejectionReason,
		rating,
		feedback,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanComplaint(row)
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error) {
	clauses, args := buildComplaintClauses(filter)
	where := strings.Join(clauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM complaints WHERE %s`, where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		complaintColumns, where, sortColumn(filter.SortBy), sortDirection(filter.SortOrder), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *complaint)
	}
	return result, total, rows.Err()
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints WHERE category_id=$1`, categoryID).Scan(&count)
	return count, err
}

func (r *complaintRepository) StatusCounts(ctx context.Context, filter ComplaintFilter) (map[domain.ComplaintStatus]int, error) {
	clauses, args := buildComplaintClauses(filter)
	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM complaints WHERE %s GROUP BY status`,
		strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintStatus]int)
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) PriorityCounts(ctx context.Context, filter ComplaintFilter) (map[domain.ComplaintPriority]int, error) {
	clauses, args := buildComplaintClauses(filter)
	query := fmt.Sprintf(`SELECT priority, COUNT(*) FROM complaints WHERE %s GROUP BY priority`,
		strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintPriority]int)
	for rows.Next() {
		var priority domain.ComplaintPriority
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		counts[priority] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) ResolutionStats(ctx context.Context) (float64, float64, int, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 86400), 0)
        FROM complaints WHERE status='resolved' AND resolved_at IS NOT NULL`
	var avgDays float64
	if err := r.pool.QueryRow(ctx, query).Scan(&avgDays); err != nil {
		return 0, 0, 0, err
	}

	const ratingQuery = `
        SELECT COALESCE(AVG(satisfaction_rating), 0), COUNT(satisfaction_rating)
        FROM complaints WHERE satisfaction_rating IS NOT NULL`
	var avgRating float64
	var rated int
	if err := r.pool.QueryRow(ctx, ratingQuery).Scan(&avgRating, &rated); err != nil {
		return 0, 0, 0, err
	}
	return avgDays, avgRating, rated, nil
}

func buildComplaintClauses(filter ComplaintFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		clauses = append(clauses, fmt.Sprintf("submitted_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.AssigneeQueue != nil {
		args = append(args, *filter.AssigneeQueue)
		clauses = append(clauses, fmt.Sprintf("(assigned_to=$%d OR assigned_to IS NULL)", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_id) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	return clauses, args
}

var sortableColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"priority":  "priority",
	"status":    "status",
	"title":     "title",
	"ticketId":  "ticket_id",
}

func sortColumn(sortBy string) string {
	if col, ok := sortableColumns[sortBy]; ok {
		return col
	}
	return "created_at"
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	var attachments, responses []byte
	var rating *int
	var feedback string
	if err := row.Scan(
		&complaint.ID,
		&complaint.TicketID,
		&complaint.Title,
		&complaint.Description,
		&complaint.CategoryID,
		&complaint.Priority,
		&complaint.Status,
		&complaint.SubmittedBy,
		&complaint.AssignedTo,
		&complaint.IsAnonymous,
		&attachments,
		&responses,
		&complaint.ResolvedAt,
		&complaint.RejectionReason,
		&rating,
		&feedback,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &complaint.Attachments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(responses, &complaint.Responses); err != nil {
		return nil, err
	}
	if rating != nil {
		complaint.Satisfaction = &domain.Satisfaction{Rating: *rating, Feedback: feedback}
	}
	return &complaint, nil
}
