package i18n

var messages = map[Lang]map[string]string{
	EN: {
		"pillar.general":     "General",
		"pillar.environment": "Environmental",
		"pillar.social":      "Social",
		"pillar.governance":  "Governance",

		"section.generalInformation":                                 "General information",
		"section.packaging":                                          "Packaging",
		"section.waste":                                              "Waste",
		"section.electricity":                                        "Electricity",
		"section.water":                                              "Water",
		"section.paperInk":                                           "Paper and ink",
		"section.environmentalManagement":                            "Environmental management",
		"section.environmentComplianceReportingAssessment":           "Environmental compliance, reporting and assessment",
		"section.environmentalDataCollectionReportingStandardAudit":  "Environmental data collection, reporting standard and audit",
		"section.sourcesAndEmission":                                 "Sources and emissions",
		"section.generalSocial":                                      "General social",
		"section.employeeOverview":                                   "Employee overview",
		"section.employeeInformation":                                "Employee information",
		"section.employeeResignationNew":                             "Resignations and new hires",
		"section.incomeByLevel":                                      "Income by level",
		"section.riskAtWork":                                         "Risk at work",
		"section.relationshipEmployeeEnterprises":                    "Employee and enterprise relationship",
		"section.informationStorage":                                 "Information storage",
		"section.laborManagement":                                    "Labor management",
		"section.protectingWorkers":                                  "Protecting workers",
		"section.useOfLabor":                                         "Use of labor",
		"section.businessAndCustomers":                               "Business and customers",
		"section.training":                                           "Training",
		"section.boardStructure":                                     "Board structure",
		"section.codeOfConduct":                                      "Code of conduct",
		"section.transparencyManagement":                             "Transparency management",
		"section.auditStructure":                                     "Audit structure",
		"section.riskStructure":                                      "Risk structure",
		"section.documentDisclosure":                                 "Document disclosure",
		"section.dividendPayment":                                    "Dividend payment",
		"section.supplyChain":                                        "Supply chain",
		"section.violationOfRegulations":                             "Violation of regulations",
		"section.violationInEnterprise":                              "Violations in the enterprise",
		"section.boardOfDirectorsRatio":                              "Board of directors ratio",
		"section.tax":                                                "Tax",

		"chart.emission":         "Greenhouse gas emissions",
		"chart.water":            "Water consumption and recycling",
		"chart.waste":            "Waste generated",
		"chart.electricity":      "Electricity consumption",
		"chart.inkPapers":        "Paper and ink usage",
		"chart.employeeSexRatio": "Employee sex ratio",
		"chart.training":         "Training hours",
		"chart.salaryChange":     "Salary change",
		"chart.risk":             "Workplace incidents",
		"chart.expenditure":      "Training expenditure",
		"chart.boardSexRatio":    "Board sex ratio",
		"chart.supplierRatio":    "Local vs foreign suppliers",
		"chart.violate":          "Regulatory violations",
		"chart.esgOverTime":      "E-S-G score over time",
		"chart.esgProportion":    "E-S-G proportion",

		"msg.ok":                 "OK",
		"msg.submitted":          "Answers submitted",
		"msg.invalidCredentials": "Invalid username or password",
		"msg.userExists":         "An account with this username already exists",
		"msg.invalidEmail":       "Username must be a valid email address",
		"msg.weakPassword":       "Password must be at least 8 characters and contain upper and lower case letters, a number and a symbol",
		"msg.unauthorized":       "Unauthorized",
		"msg.invalidYear":        "Year must be between %d and %d",
		"msg.unknownSection":     "Unknown section %q",
		"msg.unknownQuestion":    "Unknown question %q",
		"msg.invalidTargetType":  "Unknown target type %q",
		"msg.badRequest":         "Invalid request",
		"msg.internal":           "Something went wrong, please try again",
		"msg.notFound":           "Not found",
		"msg.companyUpdated":     "Company information updated",
		"msg.loggedOut":          "Logged out",
		"msg.tooManyRequests":    "Too many requests. Try again later.",

		"page.overview":  "Overview",
		"page.guideline": "Guideline",
		"page.login":     "Sign in",
		"page.logout":    "Sign out",
		"page.username":  "Email",
		"page.password":  "Password",
		"page.noScores":  "No scores yet. Submit reported metrics to get your first score.",

		"guide.title":        "Guideline: ESG scoring method",
		"guide.percentile":   "Percentile rank method",
		"guide.indexScore":   "Index score = (no. of companies with a worse value + no. of companies with the same value / 2) / no. of companies with a value",
		"guide.normalize":    "Normalising data points",
		"guide.newWeight":    "New weight of an index = initial weight of the index / weight of its pillar",
		"guide.pillarScore":  "Pillar score = Σ (score of the index in the pillar × corresponding new weight)",
		"guide.esgScore":     "ESG score = Σ (pillar score × corresponding pillar weight)",
		"guide.questionWhen": "How many companies have a lower value at the same point in time? How many have the same value? How many provide a value?",
	},
	VI: {
		"pillar.general":     "Chung",
		"pillar.environment": "Môi trường",
		"pillar.social":      "Xã hội",
		"pillar.governance":  "Quản trị",

		"section.generalInformation":                                 "Thông tin chung",
		"section.packaging":                                          "Bao bì",
		"section.waste":                                              "Chất thải",
		"section.electricity":                                        "Điện năng",
		"section.water":                                              "Nước",
		"section.paperInk":                                           "Giấy và mực in",
		"section.environmentalManagement":                            "Quản lý môi trường",
		"section.environmentComplianceReportingAssessment":           "Tuân thủ, báo cáo và đánh giá môi trường",
		"section.environmentalDataCollectionReportingStandardAudit":  "Thu thập dữ liệu, tiêu chuẩn báo cáo và kiểm toán môi trường",
		"section.sourcesAndEmission":                                 "Nguồn và phát thải",
		"section.generalSocial":                                      "Xã hội chung",
		"section.employeeOverview":                                   "Tổng quan nhân viên",
		"section.employeeInformation":                                "Thông tin nhân viên",
		"section.employeeResignationNew":                             "Nghỉ việc và tuyển mới",
		"section.incomeByLevel":                                      "Thu nhập theo cấp bậc",
		"section.riskAtWork":                                         "Rủi ro tại nơi làm việc",
		"section.relationshipEmployeeEnterprises":                    "Quan hệ người lao động và doanh nghiệp",
		"section.informationStorage":                                 "Lưu trữ thông tin",
		"section.laborManagement":                                    "Quản lý lao động",
		"section.protectingWorkers":                                  "Bảo vệ người lao động",
		"section.useOfLabor":                                         "Sử dụng lao động",
		"section.businessAndCustomers":                               "Doanh nghiệp và khách hàng",
		"section.training":                                           "Đào tạo",
		"section.boardStructure":                                     "Cơ cấu hội đồng quản trị",
		"section.codeOfConduct":                                      "Bộ quy tắc ứng xử",
		"section.transparencyManagement":                             "Quản lý minh bạch",
		"section.auditStructure":                                     "Cơ cấu kiểm toán",
		"section.riskStructure":                                      "Cơ cấu rủi ro",
		"section.documentDisclosure":                                 "Công bố tài liệu",
		"section.dividendPayment":                                    "Chi trả cổ tức",
		"section.supplyChain":                                        "Chuỗi cung ứng",
		"section.violationOfRegulations":                             "Vi phạm quy định",
		"section.violationInEnterprise":                              "Vi phạm trong doanh nghiệp",
		"section.boardOfDirectorsRatio":                              "Tỷ lệ hội đồng quản trị",
		"section.tax":                                                "Thuế",

		"chart.emission":         "Phát thải khí nhà kính",
		"chart.water":            "Tiêu thụ và tái chế nước",
		"chart.waste":            "Chất thải phát sinh",
		"chart.electricity":      "Tiêu thụ điện",
		"chart.inkPapers":        "Sử dụng giấy và mực in",
		"chart.employeeSexRatio": "Tỷ lệ giới tính nhân viên",
		"chart.training":         "Số giờ đào tạo",
		"chart.salaryChange":     "Thay đổi lương",
		"chart.risk":             "Sự cố tại nơi làm việc",
		"chart.expenditure":      "Chi phí đào tạo",
		"chart.boardSexRatio":    "Tỷ lệ giới tính hội đồng quản trị",
		"chart.supplierRatio":    "Nhà cung cấp trong nước và nước ngoài",
		"chart.violate":          "Vi phạm quy định",
		"chart.esgOverTime":      "Điểm E-S-G theo thời gian",
		"chart.esgProportion":    "Tỷ trọng E-S-G",

		"msg.ok":                 "OK",
		"msg.submitted":          "Dữ liệu đã được gửi thành công!",
		"msg.invalidCredentials": "Sai tên đăng nhập hoặc mật khẩu",
		"msg.userExists":         "Tên đăng nhập đã tồn tại",
		"msg.invalidEmail":       "Tên đăng nhập phải là địa chỉ email hợp lệ",
		"msg.weakPassword":       "Mật khẩu phải có ít nhất 8 ký tự, gồm chữ hoa, chữ thường, số và ký hiệu",
		"msg.unauthorized":       "Chưa xác thực",
		"msg.invalidYear":        "Năm phải nằm trong khoảng %d đến %d",
		"msg.unknownSection":     "Không tìm thấy mục %q",
		"msg.unknownQuestion":    "Không tìm thấy câu hỏi %q",
		"msg.invalidTargetType":  "Loại mục tiêu không hợp lệ %q",
		"msg.badRequest":         "Yêu cầu không hợp lệ",
		"msg.internal":           "Lỗi khi xử lý, vui lòng thử lại.",
		"msg.notFound":           "Không tìm thấy",
		"msg.companyUpdated":     "Đã cập nhật thông tin công ty",
		"msg.loggedOut":          "Đã đăng xuất",
		"msg.tooManyRequests":    "Quá nhiều yêu cầu. Vui lòng thử lại sau.",

		"page.overview":  "Tổng quan",
		"page.guideline": "Hướng dẫn",
		"page.login":     "Đăng nhập",
		"page.logout":    "Đăng xuất",
		"page.username":  "Email",
		"page.password":  "Mật khẩu",
		"page.noScores":  "Chưa có điểm. Hãy gửi số liệu để nhận điểm đầu tiên.",

		"guide.title":        "Hướng dẫn: Phương pháp tính điểm ESG",
		"guide.percentile":   "Phương pháp xếp hạng phần trăm",
		"guide.indexScore":   "Điểm chỉ số = (Số công ty có giá trị thấp hơn + Số công ty có cùng giá trị / 2) / Tổng số công ty",
		"guide.normalize":    "Xử lí các điểm dữ liệu cơ bản – Chuẩn hoá dữ liệu và số",
		"guide.newWeight":    "Trọng số mới của chỉ số = Trọng số ban đầu của chỉ số / Trọng số của trụ cột",
		"guide.pillarScore":  "Điểm trụ cột = Σ (Điểm của chỉ số trong trụ cột × Trọng số mới tương ứng)",
		"guide.esgScore":     "Điểm ESG = Σ (Điểm của trụ cột × Trọng số trụ cột tương ứng)",
		"guide.questionWhen": "Có bao nhiêu công ty có giá trị thấp hơn tại cùng 1 thời điểm? Có bao nhiêu công ty có cùng giá trị? Có bao nhiêu công ty cung cấp giá trị?",
	},
}
