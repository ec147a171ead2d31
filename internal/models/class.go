package models

import "time"

// Class is a course taught by exactly one teacher. StartTime and EndTime
// define the daily recurring window during which attendance may be marked.
type Class struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	TeacherID   uint      `gorm:"index;not null" json:"teacher_id"`
	Teacher     Teacher   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StartTime   TimeOfDay `gorm:"type:text;not null" json:"start_time"`
	EndTime     TimeOfDay `gorm:"type:text;not null" json:"end_time"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsActiveAt reports whether the class accepts attendance marks at the given
// instant. Both bounds are inclusive and only the time of day is compared.
// A class configured with StartTime after EndTime is never active; windows
// crossing midnight are an unsupported configuration.
func (c Class) IsActiveAt(now time.Time) bool {
	seconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return c.StartTime.SecondsOfDay() <= seconds && seconds <= c.EndTime.SecondsOfDay()
}

// StartsAfter reports whether the class window opens after the given instant.
func (c Class) StartsAfter(now time.Time) bool {
	seconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return c.StartTime.SecondsOfDay() > seconds
}
