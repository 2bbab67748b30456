package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoring-reports-api/internal/models"
)

// Options controls the size and randomness of a generated dataset.
type Options struct {
	Seed       int64
	Students   int
	Teachers   int
	Password   string
	Now        time.Time
	Weeks      int
	BcryptCost int
}

// SubjectTeacher links a subject to a teacher able to teach it.
type SubjectTeacher struct {
	SubjectID        int64 `db:"subject_id"`
	TeacherProfileID int64 `db:"teacher_profile_id"`
}

// Dataset is a referentially consistent set of fixtures with ids assigned.
type Dataset struct {
	Users              []models.User
	AcademicYears      []models.AcademicYear
	Curricula          []models.Curriculum
	Subjects           []models.Subject
	TeacherProfiles    []models.TeacherProfile
	SubjectTeachers    []SubjectTeacher
	Children           []models.ChildProfile
	ProgramEnrollments []models.ProgramEnrollment
	SubjectEnrollments []models.SubjectEnrollment
	Sessions           []models.Session
	Attendances        []models.Attendance
	Exams              []models.Exam
	ExamResults        []models.ExamResult
	Invoices           []models.Invoice
	Payments           []models.Payment
}

type curriculumSpec struct {
	name     string
	code     string
	fee      float64
	subjects []string
}

var curriculumSpecs = []curriculumSpec{
	{name: "Cambridge Primary", code: "CAM", fee: 1500000, subjects: []string{"Mathematics", "English", "Science", "Global Perspectives"}},
	{name: "International Baccalaureate", code: "IB", fee: 2250000, subjects: []string{"Mathematics", "Physics", "Literature", "Economics"}},
	{name: "National Curriculum", code: "NAT", fee: 950000, subjects: []string{"Mathematics", "Bahasa Indonesia", "Biology", "Chemistry"}},
}

var (
	firstNames     = []string{"Ayu", "Budi", "Citra", "Dimas", "Eka", "Fajar", "Gita", "Hana", "Indra", "Joko", "Kirana", "Lestari", "Made", "Nadia", "Oka", "Putri", "Rizky", "Sari", "Tono", "Wulan"}
	lastNames      = []string{"Pratama", "Wijaya", "Santoso", "Saputra", "Halim", "Kusuma", "Nugroho", "Siregar", "Lubis", "Hartono"}
	teacherNames   = []string{"Ana Putri", "Bayu Setiawan", "Clara Hutapea", "Dewa Mahendra", "Evi Rahmawati", "Fikri Hidayat", "Gilang Ramadhan", "Hesti Purnama", "Irfan Maulana", "Julia Anggraini"}
	paymentMethods = []string{"bank_transfer", "cash", "credit_card", "e_wallet"}
	genders        = []string{"female", "male"}
)

// generator carries the draw source and id counters while a dataset is built.
type generator struct {
	opts Options
	rng  *rand.Rand
	data *Dataset
	ids  map[string]int64

	current           *models.AcademicYear
	subjectsByCurric  map[int64][]int64
	teachersBySubject map[int64][]int64
	// enrolled lists, per subject, the children taking it in the current year.
	enrolled map[int64][]int64
}

// Generate builds a dataset. The same options always produce the same rows, except for password
// hashes which bcrypt salts randomly.
func Generate(opts Options) (*Dataset, error) {
	if opts.Students <= 0 {
		opts.Students = 60
	}
	if opts.Teachers <= 0 {
		opts.Teachers = 8
	}
	if opts.Password == "" {
		opts.Password = "password"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Weeks <= 0 {
		opts.Weeks = 16
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	g := &generator{
		opts:              opts,
		rng:               rand.New(rand.NewSource(opts.Seed)),
		data:              &Dataset{},
		ids:               make(map[string]int64),
		subjectsByCurric:  make(map[int64][]int64),
		teachersBySubject: make(map[int64][]int64),
		enrolled:          make(map[int64][]int64),
	}
	g.academicYears()
	g.curricula()
	g.teachers(string(hash))
	g.children()
	g.enrollments()
	g.sessions()
	g.exams()
	g.billing()
	return g.data, nil
}

func (g *generator) next(table string) int64 {
	g.ids[table]++
	return g.ids[table]
}

func (g *generator) today() time.Time {
	now := g.opts.Now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// academicYears creates the two previous school years and the current one. Years run July to June.
func (g *generator) academicYears() {
	today := g.today()
	startYear := today.Year()
	if today.Month() < time.July {
		startYear--
	}
	for offset := 2; offset >= 0; offset-- {
		start := time.Date(startYear-offset, time.July, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(startYear-offset+1, time.June, 30, 0, 0, 0, 0, time.UTC)
		g.data.AcademicYears = append(g.data.AcademicYears, models.AcademicYear{
			ID:        g.next("academic_years"),
			Name:      fmt.Sprintf("%d/%d", start.Year(), end.Year()),
			StartDate: start,
			EndDate:   end,
			IsCurrent: offset == 0,
		})
	}
	g.current = &g.data.AcademicYears[len(g.data.AcademicYears)-1]
}

func (g *generator) curricula() {
	for _, spec := range curriculumSpecs {
		curriculum := models.Curriculum{ID: g.next("curricula"), Name: spec.name, Code: spec.code}
		g.data.Curricula = append(g.data.Curricula, curriculum)
		for _, name := range spec.subjects {
			subject := models.Subject{
				ID:           g.next("subjects"),
				Name:         name,
				Code:         fmt.Sprintf("%s-%s", spec.code, subjectCode(name)),
				CurriculumID: &curriculum.ID,
				Level:        spec.code,
			}
			g.data.Subjects = append(g.data.Subjects, subject)
			g.subjectsByCurric[curriculum.ID] = append(g.subjectsByCurric[curriculum.ID], subject.ID)
		}
	}
}

func (g *generator) teachers(passwordHash string) {
	created := g.opts.Now.UTC().AddDate(-2, 0, 0)
	for i := 0; i < g.opts.Teachers; i++ {
		name := teacherNames[i%len(teacherNames)]
		if i >= len(teacherNames) {
			name = fmt.Sprintf("%s %d", name, i/len(teacherNames)+1)
		}
		user := models.User{
			ID:        g.next("users"),
			Name:      name,
			Email:     fmt.Sprintf("teacher%d@tutoring.test", i+1),
			Password:  passwordHash,
			CreatedAt: created,
		}
		g.data.Users = append(g.data.Users, user)
		g.data.TeacherProfiles = append(g.data.TeacherProfiles, models.TeacherProfile{
			ID:              g.next("teacher_profiles"),
			UserID:          &user.ID,
			Department:      curriculumSpecs[i%len(curriculumSpecs)].name,
			Qualification:   "S.Pd",
			ExperienceYears: 1 + g.rng.Intn(15),
		})
	}

	// Every subject gets one or two teachers, assigned round-robin.
	for i, subject := range g.data.Subjects {
		count := 1 + g.rng.Intn(2)
		for j := 0; j < count && j < len(g.data.TeacherProfiles); j++ {
			teacher := g.data.TeacherProfiles[(i+j)%len(g.data.TeacherProfiles)]
			g.data.SubjectTeachers = append(g.data.SubjectTeachers, SubjectTeacher{SubjectID: subject.ID, TeacherProfileID: teacher.ID})
			g.teachersBySubject[subject.ID] = append(g.teachersBySubject[subject.ID], teacher.ID)
		}
	}
	for i := range g.data.TeacherProfiles {
		for _, link := range g.data.SubjectTeachers {
			if link.TeacherProfileID == g.data.TeacherProfiles[i].ID {
				g.data.TeacherProfiles[i].Specialization = g.subjectName(link.SubjectID)
				break
			}
		}
	}
}

func (g *generator) children() {
	today := g.today()
	for i := 0; i < g.opts.Students; i++ {
		age := 5 + g.rng.Intn(14)
		dob := today.AddDate(-age, 0, -g.rng.Intn(365))
		g.data.Children = append(g.data.Children, models.ChildProfile{
			ID:          g.next("child_profiles"),
			FirstName:   firstNames[g.rng.Intn(len(firstNames))],
			LastName:    lastNames[g.rng.Intn(len(lastNames))],
			DateOfBirth: &dob,
			Gender:      genders[g.rng.Intn(len(genders))],
		})
	}
}

// enrollments gives every child a current-year enrollment and some a previous-year one.
func (g *generator) enrollments() {
	previous := &g.data.AcademicYears[len(g.data.AcademicYears)-2]
	for _, child := range g.data.Children {
		if g.rng.Intn(3) == 0 {
			g.enroll(child.ID, previous, WeightedPick(g.rng, pastEnrollmentDistribution))
		}
		g.enroll(child.ID, g.current, WeightedPick(g.rng, currentEnrollmentDistribution))
	}
}

func (g *generator) enroll(childID int64, year *models.AcademicYear, status models.EnrollmentStatus) {
	curriculum := g.data.Curricula[g.rng.Intn(len(g.data.Curricula))]
	created := year.StartDate.AddDate(0, 0, g.rng.Intn(45)).Add(time.Duration(8+g.rng.Intn(9)) * time.Hour)
	if now := g.opts.Now.UTC(); created.After(now) {
		created = now
	}
	enrollment := models.ProgramEnrollment{
		ID:             g.next("program_enrollments"),
		ChildProfileID: childID,
		CurriculumID:   &curriculum.ID,
		AcademicYearID: &year.ID,
		Status:         status,
		CreatedAt:      created,
	}
	g.data.ProgramEnrollments = append(g.data.ProgramEnrollments, enrollment)

	subjects := g.subjectsByCurric[curriculum.ID]
	picked := g.rng.Perm(len(subjects))[:2+g.rng.Intn(len(subjects)-1)]
	for _, index := range picked {
		subjectID := subjects[index]
		g.data.SubjectEnrollments = append(g.data.SubjectEnrollments, models.SubjectEnrollment{
			ID:                  g.next("subject_enrollments"),
			ProgramEnrollmentID: enrollment.ID,
			SubjectID:           &subjectID,
		})
		if year.ID == g.current.ID && status == models.EnrollmentStatusActive {
			g.enrolled[subjectID] = append(g.enrolled[subjectID], childID)
		}
	}
}

// sessions schedules one weekly class per subject over the last weeks and records one attendance
// per enrolled child.
func (g *generator) sessions() {
	today := g.today()
	for _, subject := range g.data.Subjects {
		teachers := g.teachersBySubject[subject.ID]
		weekday := g.rng.Intn(5)
		hour := 14 + g.rng.Intn(4)
		for week := g.opts.Weeks; week >= 1; week-- {
			start := today.AddDate(0, 0, -7*week+weekday).Add(time.Duration(hour) * time.Hour)
			if start.Before(g.current.StartDate) {
				continue
			}
			sessionType := MapSessionFormat(sessionFormats[g.rng.Intn(len(sessionFormats))])
			session := models.Session{
				ID:        g.next("sessions"),
				SubjectID: int64Ptr(subject.ID),
				StartTime: start,
				EndTime:   start.Add(90 * time.Minute),
				Type:      sessionType,
			}
			if len(teachers) > 0 {
				session.TeacherProfileID = int64Ptr(teachers[g.rng.Intn(len(teachers))])
			}
			if sessionType == models.SessionTypeLive {
				session.Link = fmt.Sprintf("https://meet.tutoring.test/%s-%d", subject.Code, session.ID)
			}
			g.data.Sessions = append(g.data.Sessions, session)

			for _, childID := range g.enrolled[subject.ID] {
				g.data.Attendances = append(g.data.Attendances, models.Attendance{
					ID:             g.next("attendances"),
					SessionID:      int64Ptr(session.ID),
					ChildProfileID: int64Ptr(childID),
					Status:         WeightedPick(g.rng, attendanceDistribution),
				})
			}
		}
	}
}

// exams sets three assessments per subject in the current year so far.
func (g *generator) exams() {
	today := g.today()
	span := int(today.Sub(g.current.StartDate).Hours()/24) + 1
	for _, subject := range g.data.Subjects {
		teachers := g.teachersBySubject[subject.ID]
		// Per-subject difficulty shifts the mean so that reports show spread.
		mean := 62 + g.rng.Float64()*20
		for i := 0; i < 3; i++ {
			examType := WeightedPick(g.rng, examTypeDistribution)
			exam := models.Exam{
				ID:             g.next("exams"),
				SubjectID:      int64Ptr(subject.ID),
				AcademicYearID: int64Ptr(g.current.ID),
				Title:          fmt.Sprintf("%s %s %d", subject.Name, examType, i+1),
				ExamDate:       g.current.StartDate.AddDate(0, 0, (span*(i+1))/4),
				Type:           examType,
			}
			if len(teachers) > 0 {
				exam.TeacherProfileID = int64Ptr(teachers[0])
			}
			g.data.Exams = append(g.data.Exams, exam)

			for _, childID := range g.enrolled[subject.ID] {
				score := clamp(mean+g.rng.NormFloat64()*12, 0, 100)
				g.data.ExamResults = append(g.data.ExamResults, models.ExamResult{
					ID:             g.next("exam_results"),
					ExamID:         int64Ptr(exam.ID),
					ChildProfileID: int64Ptr(childID),
					Score:          math.Round(score*100) / 100,
				})
			}
		}
	}
}

// billing issues monthly invoices per enrollment up to today and pays them according to status.
func (g *generator) billing() {
	today := g.today()
	fees := make(map[int64]float64, len(g.data.Curricula))
	for i, curriculum := range g.data.Curricula {
		fees[curriculum.ID] = curriculumSpecs[i].fee
	}
	yearEnd := make(map[int64]time.Time, len(g.data.AcademicYears))
	for _, year := range g.data.AcademicYears {
		yearEnd[year.ID] = year.EndDate
	}

	for _, enrollment := range g.data.ProgramEnrollments {
		if enrollment.Status == models.EnrollmentStatusInactive {
			continue
		}
		issued := time.Date(enrollment.CreatedAt.Year(), enrollment.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		for month := 0; month < 4; month++ {
			invoiceDate := issued.AddDate(0, month, 0)
			if invoiceDate.After(today) || invoiceDate.After(yearEnd[*enrollment.AcademicYearID]) {
				break
			}
			g.invoice(enrollment, invoiceDate, fees[*enrollment.CurriculumID], today)
		}
	}
}

func (g *generator) invoice(enrollment models.ProgramEnrollment, invoiceDate time.Time, fee float64, today time.Time) {
	due := invoiceDate.AddDate(0, 0, 14)
	status := WeightedPick(g.rng, invoiceDistribution)
	if status == models.InvoiceStatusOverdue && !due.Before(today) {
		status = models.InvoiceStatusSent
	}

	invoice := models.Invoice{
		ID:                  g.next("invoices"),
		Amount:              fee,
		InvoiceDate:         invoiceDate,
		DueDate:             due,
		Status:              status,
		ChildProfileID:      int64Ptr(enrollment.ChildProfileID),
		AcademicYearID:      enrollment.AcademicYearID,
		CurriculumID:        enrollment.CurriculumID,
		ProgramEnrollmentID: int64Ptr(enrollment.ID),
	}
	invoice.InvoiceNumber = fmt.Sprintf("INV-%s-%05d", invoiceDate.Format("200601"), invoice.ID)

	var amount float64
	switch status {
	case models.InvoiceStatusPaid:
		amount = fee
	case models.InvoiceStatusPartiallyPaid:
		amount = math.Round(fee*(0.3+g.rng.Float64()*0.4)*100) / 100
	}
	if amount > 0 {
		paid := invoiceDate.AddDate(0, 0, 1+g.rng.Intn(20))
		if paid.After(today) {
			paid = today
		}
		if status == models.InvoiceStatusPaid {
			invoice.PaidDate = &paid
		}
		g.data.Payments = append(g.data.Payments, models.Payment{
			ID:             g.next("payments"),
			Amount:         amount,
			PaymentDate:    paid,
			DueDate:        &due,
			Status:         "completed",
			PaymentMethod:  paymentMethods[g.rng.Intn(len(paymentMethods))],
			InvoiceID:      int64Ptr(invoice.ID),
			ChildProfileID: invoice.ChildProfileID,
			AcademicYearID: invoice.AcademicYearID,
			CurriculumID:   invoice.CurriculumID,
		})
	}
	g.data.Invoices = append(g.data.Invoices, invoice)
}

func (g *generator) subjectName(id int64) string {
	for _, subject := range g.data.Subjects {
		if subject.ID == id {
			return subject.Name
		}
	}
	return ""
}

func subjectCode(name string) string {
	code := make([]rune, 0, 4)
	for _, r := range name {
		if r == ' ' {
			continue
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		code = append(code, r)
		if len(code) == 4 {
			break
		}
	}
	return string(code)
}

func clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

func int64Ptr(v int64) *int64 { return &v }
