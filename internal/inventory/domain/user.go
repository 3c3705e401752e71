package domain

// User is the employee profile returned by the directory lookup. The field
// names are the directory's own and are persisted as-is.
type User struct {
	ServiceID     string  `json:"SERVICE_ID"`
	Company       string  `json:"COMPANY"`
	EmpID         string  `json:"EMP_ID"`
	EmpName       string  `json:"EMP_NAME"`
	NameEng       string  `json:"NAME_ENG"`
	Dept          string  `json:"DEPT"`
	DeptName      string  `json:"DEPT_NM"`
	JobCode       string  `json:"JOBCD"`
	JobCodeName   string  `json:"JOBCD_NM"`
	JobPosition   string  `json:"JOB_POSITION"`
	JobPositionNm string  `json:"JOB_POSITION_NM"`
	Phone         *string `json:"PHONE"`
	Email         *string `json:"EMAIL"`
	Photo         *string `json:"PHOTO"`
	PhotoURL      *string `json:"PHOTO_URL"`
}

// DemoAdmin is the offline profile used when the directory cannot be reached
// and demo logins are enabled.
func DemoAdmin() User {
	return User{
		ServiceID:     "VJ",
		Company:       "VJ",
		EmpID:         "admin",
		EmpName:       "Admin User",
		NameEng:       "Admin User",
		Dept:          "IT",
		DeptName:      "IT Department",
		JobCode:       "01",
		JobCodeName:   "Manager",
		JobPosition:   "01",
		JobPositionNm: "Manager",
	}
}
