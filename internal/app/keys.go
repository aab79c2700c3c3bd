package app

const directoryKey = "directory"

func landlordKey(id string) string { return "landlord:" + id }
func reviewsKey(id string) string  { return "reviews:" + id }
func reportKey(id string) string   { return "report:" + id }
