package entity

import "time"

type AppointmentRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
}

func (r AppointmentRecord) Row() []interface{} {
	return []interface{}{r.Timestamp.Format(time.RFC3339), r.Name, r.Date, r.Time}
}

type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r QARecord) Row() []interface{} {
	return []interface{}{r.Question, r.Answer}
}
