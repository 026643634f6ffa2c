package student

import "testing"

func TestRepoName(t *testing.T) {
	cases := []struct {
		course   string
		semester int
		want     string
	}{
		{"BCA", 3, "BCALab3"},
		{"MCA", 1, "MCALab1"},
		{"M.Sc", 4, "MScLab4"},
	}

	for _, tc := range cases {
		s := &Student{Course: tc.course, Semester: tc.semester}
		if got := s.RepoName(); got != tc.want {
			t.Errorf("RepoName() for %s semester %d = %q, want %q", tc.course, tc.semester, got, tc.want)
		}
	}
}
