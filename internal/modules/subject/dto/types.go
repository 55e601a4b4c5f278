package dto

type SubjectOutput struct {
	ID        string
	Name      string
	StartTime string
	EndTime   string
}

type UpdateScheduleInput struct {
	ID        string
	StartTime string
	EndTime   string
}
