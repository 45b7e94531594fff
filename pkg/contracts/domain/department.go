package domain

// DepartmentRecord lists the products the catalog assigns to a department.
// Members are kept in catalog order and duplicates are preserved.
type DepartmentRecord struct {
	DepartmentID   int64   `json:"department_id"`
	MemberProducts []int64 `json:"member_products"`
}

// NewDepartmentRecord creates a department seeded with its first member.
func NewDepartmentRecord(departmentID, productID int64) DepartmentRecord {
	return DepartmentRecord{
		DepartmentID:   departmentID,
		MemberProducts: []int64{productID},
	}
}

// AddProduct appends a member product.
func (d *DepartmentRecord) AddProduct(productID int64) {
	d.MemberProducts = append(d.MemberProducts, productID)
}

// Clone returns a copy that does not share the member slice.
func (d DepartmentRecord) Clone() DepartmentRecord {
	members := make([]int64, len(d.MemberProducts))
	copy(members, d.MemberProducts)
	return DepartmentRecord{
		DepartmentID:   d.DepartmentID,
		MemberProducts: members,
	}
}
