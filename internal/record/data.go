package record

// name fragments; a name is a surname followed by a given name
var surnameFragments = []string{
	"Zhang", "Li", "Wang", "Zhao", "Chen", "Yang", "Huang", "Zhou", "Wu", "Xu",
}

var givenNameFragments = []string{
	"Wei", "Qiang", "Fang", "Ying", "Jie", "Hong", "Lei", "Mei", "Juan", "Ling",
}

// Domains is the fixed set of email domains.
var Domains = []string{
	"gmail.com", "yahoo.com", "outlook.com", "163.com", "qq.com",
}

// Regions is the fixed set of address prefixes.
var Regions = []string{
	"Beijing", "Shanghai", "Guangdong", "Jiangsu", "Zhejiang", "Shandong", "Sichuan",
}

// address suffix alphabet
const alnumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const digitChars = "0123456789"
