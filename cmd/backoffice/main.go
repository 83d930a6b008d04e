package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ksacademy/backoffice/internal/app/client"
	"github.com/ksacademy/backoffice/internal/app/forms"
	"github.com/ksacademy/backoffice/internal/config"
	"github.com/ksacademy/backoffice/internal/pkg/credstore"
	"github.com/ksacademy/backoffice/internal/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format != "json",
	})

	store, err := newStore(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open credential store")
		os.Exit(1)
	}

	api := client.New(cfg, store, logger.Default())
	app := &app{
		api:     api,
		store:   store,
		scanner: bufio.NewScanner(os.Stdin),
	}

	app.run()
}

func newStore(cfg *config.Config) (credstore.Store, error) {
	if cfg.Credentials.Secret == "" {
		logger.Warn().Msg("No credential secret configured; the session will not survive restarts")
		return credstore.NewMemoryStore(), nil
	}
	return credstore.NewFileStore(cfg.Credentials.Path, cfg.Credentials.Secret)
}

type app struct {
	api     *client.Client
	store   credstore.Store
	scanner *bufio.Scanner
}

func (a *app) run() {
	ctx := context.Background()

	for {
		a.displayMenu()
		switch a.readLine() {
		case "1":
			a.login(ctx)
		case "2":
			a.dashboard(ctx)
		case "3":
			a.newEnquiry(ctx)
		case "4":
			a.enquiryList(ctx)
		case "5":
			a.newRegistration(ctx)
		case "6":
			a.registrationList(ctx)
		case "7":
			a.feesEntry(ctx)
		case "8":
			a.paymentHistory(ctx)
		case "9":
			a.forgotPassword(ctx)
		case "10":
			a.resetPassword(ctx)
		case "11":
			a.logout(ctx)
		case "12":
			color.Green("Goodbye!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func (a *app) displayMenu() {
	color.Cyan("\n=== KS Academy Back Office ===")
	fmt.Println("1. Login")
	fmt.Println("2. Dashboard")
	fmt.Println("3. New Enquiry")
	fmt.Println("4. Enquiry List")
	fmt.Println("5. New Registration")
	fmt.Println("6. Registration List")
	fmt.Println("7. Fees Entry")
	fmt.Println("8. Payment History")
	fmt.Println("9. Forgot Password")
	fmt.Println("10. Reset Password")
	fmt.Println("11. Logout")
	fmt.Println("12. Exit")
	fmt.Print("\nEnter your choice (1-12): ")
}

func (a *app) readLine() string {
	if a.scanner.Scan() {
		return strings.TrimSpace(a.scanner.Text())
	}
	return "12"
}

func (a *app) prompt(label string) string {
	fmt.Printf("%s: ", label)
	return a.readLine()
}

// form is what every controller exposes to the terminal layer.
type form interface {
	Set(field, value string) error
	Submit(ctx context.Context) error
	FieldErrors() map[string]string
}

// fieldPrompt pairs a form field name with its prompt label.
type fieldPrompt struct {
	field string
	label string
}

// fill prompts for each field, skipping blank answers so defaults stand.
func (a *app) fill(f form, prompts []fieldPrompt) {
	for _, p := range prompts {
		value := a.prompt(p.label)
		if value == "" {
			continue
		}
		if err := f.Set(p.field, value); err != nil {
			color.Red("%v", err)
		}
	}
}

// submit runs the form's submission and renders the outcome.
func (a *app) submit(ctx context.Context, f form, success string) {
	if err := f.Submit(ctx); err != nil {
		for field, msg := range f.FieldErrors() {
			color.Red("  %s: %s", field, msg)
		}
		color.Red("Error: %v", err)
		return
	}
	color.Green(success)
}

func (a *app) login(ctx context.Context) {
	f := forms.NewLoginForm(a.api, a.store, logger.Default())
	a.fill(f, []fieldPrompt{
		{"email", "Email"},
		{"password", "Password"},
	})
	a.submit(ctx, f, "Signed in.")
}

func (a *app) logout(ctx context.Context) {
	if err := forms.Logout(ctx, a.api, a.store, logger.Default()); err != nil {
		color.Red("Error: %v", err)
		return
	}
	color.Green("Signed out.")
}

func (a *app) forgotPassword(ctx context.Context) {
	f := forms.NewForgotPasswordForm(a.api, logger.Default())
	a.fill(f, []fieldPrompt{{"email", "Email"}})
	a.submit(ctx, f, "OTP sent. Check your inbox.")
}

func (a *app) resetPassword(ctx context.Context) {
	f := forms.NewResetPasswordForm(a.api, logger.Default())
	a.fill(f, []fieldPrompt{
		{"otp", "OTP"},
		{"password", "New Password"},
	})
	a.submit(ctx, f, "Password reset.")
}

func (a *app) dashboard(ctx context.Context) {
	stats, err := a.api.DashboardStats(ctx)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}
	color.Yellow("\nDashboard")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Enquiries", "Registrations", "Collection", "Pending Dues"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalEnquiries),
		fmt.Sprintf("%d", stats.TotalRegistrations),
		stats.TotalCollection.String(),
		stats.PendingDues.String(),
	})
	table.Render()
}

func (a *app) newEnquiry(ctx context.Context) {
	f := forms.NewEnquiryForm(a.api, logger.Default())
	a.fill(f, []fieldPrompt{
		{"studentName", "Student Name"},
		{"contactNumber", "Contact Number"},
		{"whatsappNumber", "WhatsApp Number"},
		{"courseEnquiry", "Course"},
		{"modeOfReference", "Mode of Reference"},
		{"place", "Place"},
		{"counsellorName", "Counsellor Name"},
		{"franchisee", "Franchisee"},
		{"remarks", "Remarks"},
	})
	a.submit(ctx, f, "Enquiry created successfully")
}

func (a *app) enquiryList(ctx context.Context) {
	enquiries, err := a.api.Enquiries(ctx)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}
	color.Yellow("\nEnquiries")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Student", "Contact", "Course", "Franchisee", "Registered"})
	for _, e := range enquiries {
		registered := "No"
		if e.Registered() {
			registered = "Yes"
		}
		table.Append([]string{e.StudentName, e.ContactNumber, e.Course, e.Franchisee, registered})
	}
	table.Render()
}

func (a *app) newRegistration(ctx context.Context) {
	f := forms.NewRegistrationForm(a.api, logger.Default())
	if err := f.LoadRegistrationNumber(ctx); err != nil {
		color.Red("Error: %v", err)
		return
	}
	fmt.Printf("Registration No: %s\n", f.Draft().RegistrationNo)
	a.fill(f, []fieldPrompt{
		{"studentName", "Student Name"},
		{"guardianName", "Parent/Husband Name"},
		{"guardianOccupation", "Parent/Husband Occupation"},
		{"course", "Course"},
		{"dob", "Date of Birth (YYYY-MM-DD)"},
		{"address", "Address"},
		{"contactNo", "Contact Number"},
		{"guardianContactNo", "Guardian Contact Number"},
		{"email", "Email"},
		{"category", "Category"},
		{"computerCourse", "Computer Course"},
		{"medium", "Medium"},
		{"registrationFees", "Registration Fees"},
	})
	a.submit(ctx, f, "Registration created successfully")
}

func (a *app) registrationList(ctx context.Context) {
	registrations, err := a.api.Registrations(ctx)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}
	color.Yellow("\nRegistrations")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Reg No", "Student", "Course", "Contact", "Fees"})
	for _, r := range registrations {
		table.Append([]string{r.RegistrationNo, r.StudentName, r.Course, r.ContactNo, r.RegistrationFees.String()})
	}
	table.Render()
}

func (a *app) feesEntry(ctx context.Context) {
	f := forms.NewFeesForm(a.api, logger.Default())
	options, err := f.LoadRegistrations(ctx)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}
	for _, opt := range options {
		fmt.Printf("  %s - %s (%s)\n", opt.RegistrationNo, opt.StudentName, opt.Course)
	}
	if no := a.prompt("Registration No"); no != "" {
		if err := f.SelectRegistration(no); err != nil {
			color.Red("%v", err)
			return
		}
	}
	draft := f.Draft()
	fmt.Printf("Student: %s, Course: %s, Due: %s\n", draft.StudentName, draft.Course, draft.TotalFees)
	a.fill(f, []fieldPrompt{
		{"totalFees", "Total Fees"},
		{"paidFees", "Paid Fees"},
		{"dueDate", "Due Date (YYYY-MM-DD)"},
		{"paidThrough", "Paid Through"},
		{"receivedBy", "Received By"},
	})
	fmt.Printf("Due after payment: %s\n", f.Draft().DueFees)
	a.submit(ctx, f, "Fees entry created successfully")
}

func (a *app) paymentHistory(ctx context.Context) {
	payments, err := a.api.PaymentHistory(ctx)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}
	color.Yellow("\nPayment History")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Reg No", "Student", "Date", "Paid", "Due", "Method", "Received By"})
	for _, p := range payments {
		table.Append([]string{
			p.RegistrationNo, p.StudentName, p.FeeDate,
			p.PaidFees.String(), p.DueFees.String(),
			p.PaidThrough, p.ReceivedBy,
		})
	}
	table.Render()
}
