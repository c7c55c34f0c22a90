package report

import "testing"

func docWith(reports ...TopicReport) Document {
	return Document{ID: "test", Topics: reports}
}

func TestDiff_NoChanges(t *testing.T) {
	a := docWith(
		TopicReport{Topic: "/cmd_vel", Type: "geometry_msgs/Twist", RateHz: 10},
		TopicReport{Topic: "/odom", Type: "nav_msgs/Odometry", RateHz: 30},
	)
	b := docWith(
		TopicReport{Topic: "/cmd_vel", Type: "geometry_msgs/Twist", RateHz: 10.2},
		TopicReport{Topic: "/odom", Type: "nav_msgs/Odometry", RateHz: 29.8},
	)

	diff := Diff(a, b)
	if !diff.Empty() {
		t.Errorf("Expected empty diff, got %+v", diff)
	}
}

func TestDiff_AddedRemoved(t *testing.T) {
	a := docWith(
		TopicReport{Topic: "/cmd_vel"},
		TopicReport{Topic: "/old_scan"},
	)
	b := docWith(
		TopicReport{Topic: "/cmd_vel"},
		TopicReport{Topic: "/scan"},
	)

	diff := Diff(a, b)
	if len(diff.Added) != 1 || diff.Added[0] != "/scan" {
		t.Errorf("Expected /scan added, got %v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0] != "/old_scan" {
		t.Errorf("Expected /old_scan removed, got %v", diff.Removed)
	}
}

func TestDiff_TypeChange(t *testing.T) {
	a := docWith(TopicReport{Topic: "/goal", Type: "geometry_msgs/PoseStamped"})
	b := docWith(TopicReport{Topic: "/goal", Type: "geometry_msgs/PoseWithCovarianceStamped"})

	diff := Diff(a, b)
	if len(diff.TypeChanges) != 1 {
		t.Fatalf("Expected 1 type change, got %d", len(diff.TypeChanges))
	}
	tc := diff.TypeChanges[0]
	if tc.OldType != "geometry_msgs/PoseStamped" ||
		tc.NewType != "geometry_msgs/PoseWithCovarianceStamped" {
		t.Errorf("Unexpected type change: %+v", tc)
	}
}

func TestDiff_RateChange(t *testing.T) {
	a := docWith(TopicReport{Topic: "/scan", RateHz: 40})
	b := docWith(TopicReport{Topic: "/scan", RateHz: 10})

	diff := Diff(a, b)
	if len(diff.RateChanges) != 1 {
		t.Fatalf("Expected 1 rate change, got %d", len(diff.RateChanges))
	}
	rc := diff.RateChanges[0]
	if rc.OldHz != 40 || rc.NewHz != 10 {
		t.Errorf("Unexpected rate change: %+v", rc)
	}
}

func TestDiff_SilencedTopic(t *testing.T) {
	a := docWith(TopicReport{Topic: "/scan", RateHz: 40})
	b := docWith(TopicReport{Topic: "/scan", RateHz: 0})

	diff := Diff(a, b)
	if len(diff.RateChanges) != 1 {
		t.Errorf("A topic going silent should register as a rate change: %+v", diff)
	}
}
