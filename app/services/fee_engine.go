package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"school-admin/app/database"
	"school-admin/app/models"
)

var (
	// ErrDuplicateGeneration is returned when installments already exist
	// for the (student, academic year, class) triple.
	ErrDuplicateGeneration = errors.New("fees already exist for this student in this academic year and class")

	// ErrConfigurationMissing is returned when no fee configuration
	// exists for the class and academic year.
	ErrConfigurationMissing = errors.New("fee configuration not found for this class and academic year")

	// ErrInvalidStartDate is returned when the academic year's start
	// date is missing or not a real calendar date.
	ErrInvalidStartDate = errors.New("academic year start date is missing or invalid")
)

// FeeStore is the persistence surface the fee engine needs. The SQL
// implementation lives in app/database; tests substitute an in-memory
// fake.
type FeeStore interface {
	GetFeeConfigurationByID(id string) (*models.FeeConfiguration, error)
	GetFeeConfigurationFor(academicYearID, classID string) (*models.FeeConfiguration, error)
	GetAcademicYearByID(id string) (*models.AcademicYear, error)
	GetActiveStudentsInClass(classID, academicYearID string) ([]*models.Student, error)
	HasInstallments(studentID, academicYearID, classID string) (bool, error)
	InsertInstallmentBatch(installments []*models.FeeInstallment) error
}

// FeeEngine generates fee installments from class-level configurations.
type FeeEngine struct {
	store FeeStore
}

// NewFeeEngine builds an engine on the given store.
func NewFeeEngine(store FeeStore) *FeeEngine {
	return &FeeEngine{store: store}
}

// BuildInstallments expands a fee configuration into the full set of
// installments for one student. Pure and deterministic: the same
// configuration, start date and clock always produce the same records.
func BuildInstallments(cfg *models.FeeConfiguration, startDate time.Time, studentID string, now time.Time) []*models.FeeInstallment {
	var installments []*models.FeeInstallment

	newInstallment := func(feeType models.FeeType, name string, amount float64, dueDate time.Time) *models.FeeInstallment {
		fi := &models.FeeInstallment{
			StudentID:      studentID,
			AcademicYearID: cfg.AcademicYearID,
			ClassID:        cfg.ClassID,
			FeeType:        feeType,
			FeeName:        name,
			Amount:         amount,
			DueDate:        dueDate,
		}
		fi.Recalculate(now)
		return fi
	}

	// Monthly tuition, April through March, due on the 10th of each
	// successive month from the year's start month.
	for i := 0; i < 12; i++ {
		month := models.FeeMonths[i]
		dueDate := time.Date(startDate.Year(), startDate.Month()+time.Month(i), 10,
			0, 0, 0, 0, startDate.Location())
		fi := newInstallment(models.FeeTuition, month+" Tuition Fee", cfg.FeeStructure.TuitionFee, dueDate)
		m := month
		fi.Month = &m
		installments = append(installments, fi)
	}

	// Exam fees, spaced a quarter apart by list position.
	for i, exam := range cfg.FeeStructure.ExamFees {
		dueDate := time.Date(startDate.Year(), startDate.Month()+time.Month(i*3), startDate.Day(),
			0, 0, 0, 0, startDate.Location())
		fi := newInstallment(models.FeeExam, exam.Name, exam.Amount, dueDate)
		term := exam.Name
		fi.Term = &term
		installments = append(installments, fi)
	}

	// Other fee heads. One-time and annual fees fall due on the start
	// date itself; monthly ones follow the month cycle keeping the start
	// date's day of month, unlike tuition which forces the 10th.
	for _, fee := range cfg.FeeStructure.OtherFees {
		switch fee.Frequency {
		case models.FrequencyOneTime, models.FrequencyAnnual:
			installments = append(installments,
				newInstallment(models.FeeOther, fee.Name, fee.Amount, startDate))
		case models.FrequencyMonthly:
			for i := 0; i < 12; i++ {
				month := models.FeeMonths[i]
				dueDate := time.Date(startDate.Year(), startDate.Month()+time.Month(i), startDate.Day(),
					0, 0, 0, 0, startDate.Location())
				fi := newInstallment(models.FeeOther, month+" "+fee.Name, fee.Amount, dueDate)
				m := month
				fi.Month = &m
				installments = append(installments, fi)
			}
		}
	}

	return installments
}

// resolveStartDate validates the configuration's academic year and
// returns its start date.
func (e *FeeEngine) resolveStartDate(cfg *models.FeeConfiguration) (time.Time, error) {
	year := cfg.AcademicYear
	if year == nil {
		var err error
		year, err = e.store.GetAcademicYearByID(cfg.AcademicYearID)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidStartDate, err)
		}
	}
	if year.StartDate.Time.IsZero() {
		return time.Time{}, ErrInvalidStartDate
	}
	return year.StartDate.Time, nil
}

// GenerateForStudent generates the full installment set for one student.
// It fails with ErrDuplicateGeneration if any installment already exists
// for the triple; the batch insert is atomic per student.
func (e *FeeEngine) GenerateForStudent(studentID, academicYearID, classID string) ([]*models.FeeInstallment, error) {
	exists, err := e.store.HasInstallments(studentID, academicYearID, classID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateGeneration
	}

	cfg, err := e.store.GetFeeConfigurationFor(academicYearID, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrConfigurationMissing
		}
		return nil, err
	}

	startDate, err := e.resolveStartDate(cfg)
	if err != nil {
		return nil, err
	}

	installments := BuildInstallments(cfg, startDate, studentID, time.Now())
	if err := e.store.InsertInstallmentBatch(installments); err != nil {
		return nil, err
	}
	return installments, nil
}

// GenerateForClass generates installments for every active student in
// the configuration's class. Students already billed are counted as
// skipped; a failure for one student is recorded and does not stop the
// rest of the class.
func (e *FeeEngine) GenerateForClass(configurationID string) (*models.GenerationResult, error) {
	cfg, err := e.store.GetFeeConfigurationByID(configurationID)
	if err != nil {
		return nil, err
	}

	startDate, err := e.resolveStartDate(cfg)
	if err != nil {
		return nil, err
	}

	students, err := e.store.GetActiveStudentsInClass(cfg.ClassID, cfg.AcademicYearID)
	if err != nil {
		return nil, err
	}

	result := &models.GenerationResult{StudentsCount: len(students)}
	now := time.Now()

	for _, student := range students {
		exists, err := e.store.HasInstallments(student.ID, cfg.AcademicYearID, cfg.ClassID)
		if err != nil {
			log.Printf("Fee generation: existence check failed for student %s: %v", student.ID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("student %s: %v", student.AdmissionNumber, err))
			continue
		}
		if exists {
			log.Printf("Fees already exist for student %s, skipping", student.ID)
			result.SkippedCount++
			continue
		}

		installments := BuildInstallments(cfg, startDate, student.ID, now)
		if err := e.store.InsertInstallmentBatch(installments); err != nil {
			log.Printf("Fee generation: insert failed for student %s: %v", student.ID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("student %s: %v", student.AdmissionNumber, err))
			continue
		}

		result.ProcessedCount++
		result.InstallmentsCount += len(installments)
	}

	return result, nil
}

// AutoGenerateFees is invoked after a student is created or enrolled.
// All failures are logged and swallowed: fee setup must never break
// student creation.
func (e *FeeEngine) AutoGenerateFees(studentID string, academicYearID, classID *string) {
	if academicYearID == nil || classID == nil {
		return
	}

	installments, err := e.GenerateForStudent(studentID, *academicYearID, *classID)
	switch {
	case err == nil:
		log.Printf("Generated %d fee installments for student %s", len(installments), studentID)
	case errors.Is(err, ErrDuplicateGeneration):
		log.Printf("Fees already exist for student %s, skipping auto-generation", studentID)
	case errors.Is(err, ErrConfigurationMissing):
		log.Printf("No fee configuration for class %s in year %s, skipping auto-generation", *classID, *academicYearID)
	case errors.Is(err, ErrInvalidStartDate):
		log.Printf("Academic year %s has no valid start date, skipping auto-generation", *academicYearID)
	default:
		log.Printf("Error auto-generating fees for student %s: %v", studentID, err)
	}
}

// dbFeeStore implements FeeStore over the app/database query helpers.
type dbFeeStore struct {
	db *sql.DB
}

// NewDBFeeStore wraps a database handle as a FeeStore.
func NewDBFeeStore(db *sql.DB) FeeStore {
	return &dbFeeStore{db: db}
}

func (s *dbFeeStore) GetFeeConfigurationByID(id string) (*models.FeeConfiguration, error) {
	return database.GetFeeConfigurationByID(s.db, id)
}

func (s *dbFeeStore) GetFeeConfigurationFor(academicYearID, classID string) (*models.FeeConfiguration, error) {
	return database.GetFeeConfigurationFor(s.db, academicYearID, classID)
}

func (s *dbFeeStore) GetAcademicYearByID(id string) (*models.AcademicYear, error) {
	return database.GetAcademicYearByID(s.db, id)
}

func (s *dbFeeStore) GetActiveStudentsInClass(classID, academicYearID string) ([]*models.Student, error) {
	return database.GetActiveStudentsInClass(s.db, classID, academicYearID)
}

func (s *dbFeeStore) HasInstallments(studentID, academicYearID, classID string) (bool, error) {
	return database.HasInstallments(s.db, studentID, academicYearID, classID)
}

func (s *dbFeeStore) InsertInstallmentBatch(installments []*models.FeeInstallment) error {
	return database.InsertInstallmentBatch(s.db, installments)
}
