package services

const (
	LogActionWorkbookLoad  = "WORKBOOK_LOAD"
	LogActionLayoutDetect  = "LAYOUT_DETECT"
	LogActionSeriesExtract = "SERIES_EXTRACT"
	LogActionConvert       = "CONVERT"
	LogActionCsvWrite      = "CSV_WRITE"
	LogActionBatchProcess  = "BATCH_PROCESS"
	LogOutcomeSuccess      = "SUCCESS"
	LogOutcomeWarn         = "WARN"
	LogOutcomeFail         = "FAIL"
)
