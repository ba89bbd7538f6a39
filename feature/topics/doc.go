// Package topics manages the topic and subtopic taxonomy videos are filed
// under. Reads are public; writes need an admin.
//
// Deleting a topic removes its subtopics but is refused while any video
// still points at the topic. Deleting a subtopic only detaches it from its
// videos.
package topics
