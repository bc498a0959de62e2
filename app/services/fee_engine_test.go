package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"school-admin/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeeStore struct {
	configs      map[string]*models.FeeConfiguration
	years        map[string]*models.AcademicYear
	students     map[string][]*models.Student
	generated    map[string][]*models.FeeInstallment
	insertErrFor map[string]error
}

func newFakeFeeStore() *fakeFeeStore {
	return &fakeFeeStore{
		configs:      make(map[string]*models.FeeConfiguration),
		years:        make(map[string]*models.AcademicYear),
		students:     make(map[string][]*models.Student),
		generated:    make(map[string][]*models.FeeInstallment),
		insertErrFor: make(map[string]error),
	}
}

func tripleKey(studentID, yearID, classID string) string {
	return studentID + "/" + yearID + "/" + classID
}

func (f *fakeFeeStore) GetFeeConfigurationByID(id string) (*models.FeeConfiguration, error) {
	if cfg, ok := f.configs[id]; ok {
		return cfg, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFeeStore) GetFeeConfigurationFor(yearID, classID string) (*models.FeeConfiguration, error) {
	for _, cfg := range f.configs {
		if cfg.AcademicYearID == yearID && cfg.ClassID == classID {
			return cfg, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFeeStore) GetAcademicYearByID(id string) (*models.AcademicYear, error) {
	if year, ok := f.years[id]; ok {
		return year, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFeeStore) GetActiveStudentsInClass(classID, yearID string) ([]*models.Student, error) {
	return f.students[classID+"/"+yearID], nil
}

func (f *fakeFeeStore) HasInstallments(studentID, yearID, classID string) (bool, error) {
	return len(f.generated[tripleKey(studentID, yearID, classID)]) > 0, nil
}

func (f *fakeFeeStore) InsertInstallmentBatch(installments []*models.FeeInstallment) error {
	if len(installments) == 0 {
		return nil
	}
	fi := installments[0]
	if err, ok := f.insertErrFor[fi.StudentID]; ok {
		return err
	}
	key := tripleKey(fi.StudentID, fi.AcademicYearID, fi.ClassID)
	f.generated[key] = append(f.generated[key], installments...)
	return nil
}

func (f *fakeFeeStore) addConfig(id, yearID, classID string, structure models.FeeStructure) {
	f.configs[id] = &models.FeeConfiguration{
		ID:             id,
		AcademicYearID: yearID,
		ClassID:        classID,
		FeeStructure:   structure,
		IsActive:       true,
	}
}

func (f *fakeFeeStore) addYear(id string, start time.Time) {
	f.years[id] = &models.AcademicYear{
		ID:        id,
		StartDate: models.CustomTime{Time: start},
		EndDate:   models.CustomTime{Time: start.AddDate(1, 0, 0)},
	}
}

func (f *fakeFeeStore) addStudent(id, classID, yearID string) *models.Student {
	cid, yid := classID, yearID
	s := &models.Student{
		ID:              id,
		AdmissionNumber: "ADM-2024-" + id,
		FirstName:       "Test",
		LastName:        "Student",
		ClassID:         &cid,
		AcademicYearID:  &yid,
		Status:          models.StudentActive,
	}
	f.students[classID+"/"+yearID] = append(f.students[classID+"/"+yearID], s)
	return s
}

func TestBuildInstallments(t *testing.T) {
	startDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	now := startDate

	t.Run("tuition plus exam completeness", func(t *testing.T) {
		cfg := &models.FeeConfiguration{
			AcademicYearID: "year-1",
			ClassID:        "class-1",
			FeeStructure: models.FeeStructure{
				TuitionFee: 1000,
				ExamFees: []models.ExamFee{
					{Name: "First Term", Amount: 500},
					{Name: "Second Term", Amount: 500},
					{Name: "Third Term", Amount: 500},
					{Name: "Final", Amount: 500},
				},
			},
		}

		installments := BuildInstallments(cfg, startDate, "student-1", now)
		require.Len(t, installments, 16)

		tuition := 0
		exams := 0
		for _, fi := range installments {
			switch fi.FeeType {
			case models.FeeTuition:
				tuition++
			case models.FeeExam:
				exams++
			}
		}
		assert.Equal(t, 12, tuition)
		assert.Equal(t, 4, exams)
	})

	t.Run("april start year", func(t *testing.T) {
		cfg := &models.FeeConfiguration{
			AcademicYearID: "year-1",
			ClassID:        "class-1",
			FeeStructure: models.FeeStructure{
				TuitionFee: 1500,
				ExamFees:   []models.ExamFee{{Name: "First Term", Amount: 500}},
			},
		}

		installments := BuildInstallments(cfg, startDate, "student-1", now)
		require.Len(t, installments, 13)

		var total float64
		for _, fi := range installments {
			total += fi.Amount
		}
		assert.Equal(t, 18500.0, total)

		assert.Equal(t, "April Tuition Fee", installments[0].FeeName)
		assert.Equal(t, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
		assert.Equal(t, "March Tuition Fee", installments[11].FeeName)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), installments[11].DueDate)

		exam := installments[12]
		assert.Equal(t, models.FeeExam, exam.FeeType)
		assert.Equal(t, "First Term", exam.FeeName)
		assert.Equal(t, startDate, exam.DueDate)
		require.NotNil(t, exam.Term)
		assert.Equal(t, "First Term", *exam.Term)
	})

	t.Run("exam fees spaced a quarter apart", func(t *testing.T) {
		cfg := &models.FeeConfiguration{
			AcademicYearID: "year-1",
			ClassID:        "class-1",
			FeeStructure: models.FeeStructure{
				ExamFees: []models.ExamFee{
					{Name: "First Term", Amount: 300},
					{Name: "Second Term", Amount: 300},
					{Name: "Third Term", Amount: 300},
				},
			},
		}

		installments := BuildInstallments(cfg, startDate, "student-1", now)
		var exams []*models.FeeInstallment
		for _, fi := range installments {
			if fi.FeeType == models.FeeExam {
				exams = append(exams, fi)
			}
		}
		require.Len(t, exams, 3)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), exams[0].DueDate)
		assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), exams[1].DueDate)
		assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), exams[2].DueDate)
	})

	t.Run("monthly other fee keeps start day while tuition uses the 10th", func(t *testing.T) {
		start := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)
		cfg := &models.FeeConfiguration{
			AcademicYearID: "year-1",
			ClassID:        "class-1",
			FeeStructure: models.FeeStructure{
				TuitionFee: 1000,
				OtherFees: []models.OtherFee{
					{Name: "Transport Fee", Amount: 200, Frequency: models.FrequencyMonthly},
				},
			},
		}

		installments := BuildInstallments(cfg, start, "student-1", start)

		var tuitionDays, otherDays []int
		for _, fi := range installments {
			switch fi.FeeType {
			case models.FeeTuition:
				tuitionDays = append(tuitionDays, fi.DueDate.Day())
			case models.FeeOther:
				otherDays = append(otherDays, fi.DueDate.Day())
			}
		}
		require.Len(t, tuitionDays, 12)
		require.Len(t, otherDays, 12)
		for i := 0; i < 12; i++ {
			assert.Equal(t, 10, tuitionDays[i])
			assert.Equal(t, 5, otherDays[i])
		}

		var monthly *models.FeeInstallment
		for _, fi := range installments {
			if fi.FeeType == models.FeeOther {
				monthly = fi
				break
			}
		}
		require.NotNil(t, monthly)
		assert.Equal(t, "April Transport Fee", monthly.FeeName)
	})

	t.Run("one-time and annual fees fall due on the start date", func(t *testing.T) {
		cfg := &models.FeeConfiguration{
			AcademicYearID: "year-1",
			ClassID:        "class-1",
			FeeStructure: models.FeeStructure{
				OtherFees: []models.OtherFee{
					{Name: "Admission Fee", Amount: 2000, Frequency: models.FrequencyOneTime},
					{Name: "Library Fee", Amount: 800, Frequency: models.FrequencyAnnual},
				},
			},
		}

		installments := BuildInstallments(cfg, startDate, "student-1", now)

		var others []*models.FeeInstallment
		for _, fi := range installments {
			if fi.FeeType == models.FeeOther {
				others = append(others, fi)
			}
		}
		require.Len(t, others, 2)
		for _, fi := range others {
			assert.Equal(t, startDate, fi.DueDate)
		}
		assert.Equal(t, "Admission Fee", others[0].FeeName)
		assert.Equal(t, "Library Fee", others[1].FeeName)
	})

	t.Run("initial status derived at generation time", func(t *testing.T) {
		cfg := &models.FeeConfiguration{
			AcademicYearID: "year-1",
			ClassID:        "class-1",
			FeeStructure:   models.FeeStructure{TuitionFee: 1000},
		}

		// Generating mid-year: earlier months are immediately overdue.
		generatedAt := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
		installments := BuildInstallments(cfg, startDate, "student-1", generatedAt)

		assert.Equal(t, models.InstallmentOverdue, installments[0].Status) // April
		assert.Equal(t, models.InstallmentPending, installments[11].Status) // March
		for _, fi := range installments {
			assert.Equal(t, fi.Amount, fi.Balance)
		}
	})
}

func TestGenerateForStudent(t *testing.T) {
	startDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	setup := func() (*FeeEngine, *fakeFeeStore) {
		store := newFakeFeeStore()
		store.addYear("year-1", startDate)
		store.addConfig("cfg-1", "year-1", "class-1", models.FeeStructure{
			TuitionFee: 1500,
			ExamFees:   []models.ExamFee{{Name: "First Term", Amount: 500}},
		})
		return NewFeeEngine(store), store
	}

	t.Run("generates the full set", func(t *testing.T) {
		engine, store := setup()

		installments, err := engine.GenerateForStudent("student-1", "year-1", "class-1")
		require.NoError(t, err)
		assert.Len(t, installments, 13)
		assert.Len(t, store.generated[tripleKey("student-1", "year-1", "class-1")], 13)
	})

	t.Run("second generation fails and adds nothing", func(t *testing.T) {
		engine, store := setup()

		_, err := engine.GenerateForStudent("student-1", "year-1", "class-1")
		require.NoError(t, err)

		_, err = engine.GenerateForStudent("student-1", "year-1", "class-1")
		assert.ErrorIs(t, err, ErrDuplicateGeneration)
		assert.Len(t, store.generated[tripleKey("student-1", "year-1", "class-1")], 13)
	})

	t.Run("missing configuration", func(t *testing.T) {
		engine, _ := setup()

		_, err := engine.GenerateForStudent("student-1", "year-1", "class-other")
		assert.ErrorIs(t, err, ErrConfigurationMissing)
	})

	t.Run("missing start date", func(t *testing.T) {
		store := newFakeFeeStore()
		store.years["year-2"] = &models.AcademicYear{ID: "year-2"}
		store.addConfig("cfg-2", "year-2", "class-1", models.FeeStructure{TuitionFee: 1000})
		engine := NewFeeEngine(store)

		_, err := engine.GenerateForStudent("student-1", "year-2", "class-1")
		assert.ErrorIs(t, err, ErrInvalidStartDate)
	})
}

func TestGenerateForClass(t *testing.T) {
	startDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	setup := func() (*FeeEngine, *fakeFeeStore) {
		store := newFakeFeeStore()
		store.addYear("year-1", startDate)
		store.addConfig("cfg-1", "year-1", "class-1", models.FeeStructure{TuitionFee: 1000})
		return NewFeeEngine(store), store
	}

	t.Run("bills every active student", func(t *testing.T) {
		engine, store := setup()
		store.addStudent("s1", "class-1", "year-1")
		store.addStudent("s2", "class-1", "year-1")
		store.addStudent("s3", "class-1", "year-1")

		result, err := engine.GenerateForClass("cfg-1")
		require.NoError(t, err)

		assert.Equal(t, 3, result.StudentsCount)
		assert.Equal(t, 3, result.ProcessedCount)
		assert.Equal(t, 0, result.SkippedCount)
		assert.Equal(t, 36, result.InstallmentsCount)
		assert.Empty(t, result.Errors)
	})

	t.Run("already billed students are skipped, not failed", func(t *testing.T) {
		engine, store := setup()
		store.addStudent("s1", "class-1", "year-1")
		store.addStudent("s2", "class-1", "year-1")

		_, err := engine.GenerateForStudent("s1", "year-1", "class-1")
		require.NoError(t, err)

		result, err := engine.GenerateForClass("cfg-1")
		require.NoError(t, err)

		assert.Equal(t, 2, result.StudentsCount)
		assert.Equal(t, 1, result.ProcessedCount)
		assert.Equal(t, 1, result.SkippedCount)
		assert.Empty(t, result.Errors)

		// The skipped student's set did not grow.
		assert.Len(t, store.generated[tripleKey("s1", "year-1", "class-1")], 12)
	})

	t.Run("one student's failure does not abort the batch", func(t *testing.T) {
		engine, store := setup()
		store.addStudent("s1", "class-1", "year-1")
		store.addStudent("s2", "class-1", "year-1")
		store.addStudent("s3", "class-1", "year-1")
		store.insertErrFor["s2"] = fmt.Errorf("insert failed")

		result, err := engine.GenerateForClass("cfg-1")
		require.NoError(t, err)

		assert.Equal(t, 2, result.ProcessedCount)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "insert failed")
		assert.Len(t, store.generated[tripleKey("s1", "year-1", "class-1")], 12)
		assert.Len(t, store.generated[tripleKey("s3", "year-1", "class-1")], 12)
	})

	t.Run("unknown configuration", func(t *testing.T) {
		engine, _ := setup()

		_, err := engine.GenerateForClass("cfg-missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestAutoGenerateFees(t *testing.T) {
	startDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("generates when configuration exists", func(t *testing.T) {
		store := newFakeFeeStore()
		store.addYear("year-1", startDate)
		store.addConfig("cfg-1", "year-1", "class-1", models.FeeStructure{TuitionFee: 1000})
		engine := NewFeeEngine(store)

		yearID, classID := "year-1", "class-1"
		engine.AutoGenerateFees("s1", &yearID, &classID)

		assert.Len(t, store.generated[tripleKey("s1", "year-1", "class-1")], 12)
	})

	t.Run("silently does nothing without enrollment", func(t *testing.T) {
		store := newFakeFeeStore()
		engine := NewFeeEngine(store)

		engine.AutoGenerateFees("s1", nil, nil)
		assert.Empty(t, store.generated)
	})

	t.Run("swallows missing configuration", func(t *testing.T) {
		store := newFakeFeeStore()
		store.addYear("year-1", startDate)
		engine := NewFeeEngine(store)

		yearID, classID := "year-1", "class-1"
		engine.AutoGenerateFees("s1", &yearID, &classID)

		assert.Empty(t, store.generated)
	})
}
